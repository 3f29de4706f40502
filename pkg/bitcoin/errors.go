// Package bitcoin implements the on-chain did:btco support the protocol
// needs (§4.13): commit-reveal inscription, satoshi transfer, batch
// inscription with proportional fee splitting, and Taproot output
// validation, built on btcsuite/btcd.
package bitcoin

import "errors"

var (
	ErrNotTaproot        = errors.New("bitcoin: output is not a taproot (P2TR) script")
	ErrInsufficientFunds = errors.New("bitcoin: insufficient funds for requested fee rate")
	ErrEmptyBatch        = errors.New("bitcoin: batch must contain at least one manifest entry")
)
