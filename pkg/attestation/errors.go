package attestation

import "errors"

var (
	errUnsupportedScheme  = errors.New("attestation: unsupported scheme")
	errVerificationFailed = errors.New("attestation: signature verification failed")
	errStageMismatch      = errors.New("attestation: final attestation must reference the preliminary one's checkpoint")
)
