package didurl

import "errors"

var (
	ErrInvalidDid                 = errors.New("invalid did")
	ErrRepresentationNotSupported = errors.New("representation not supported")
)
