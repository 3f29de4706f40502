package crypto

import "errors"

// Sentinel errors for the crypto primitives package (§4.1).
var (
	ErrInvalidKeyEncoding        = errors.New("invalid key encoding")
	ErrUnsupportedAlgorithm      = errors.New("unsupported algorithm")
	ErrSignatureVerificationFailed = errors.New("signature verification failed")
)
