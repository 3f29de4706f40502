package signer

import "errors"

var (
	ErrUnsupportedCryptosuite = errors.New("unsupported cryptosuite")
	ErrProofVerificationFailed = errors.New("proof verification failed")
	ErrMissingProof           = errors.New("missing proof")
)
