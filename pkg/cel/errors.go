package cel

import "errors"

var (
	ErrChainBroken            = errors.New("cel: hash chain broken")
	ErrInvalidOperation       = errors.New("cel: invalid operation")
	ErrReplayFailed           = errors.New("cel: replay failed")
	ErrUnknownResource        = errors.New("cel: unknown resource")
	ErrLayerFinalityViolation = errors.New("cel: asset is finalized on btco and is immutable")
)
