// Package ordinals defines the Bitcoin ordinals provider contract (§4.8):
// inscription creation (commit+reveal), transfer, and lookup, behind an
// interface so pkg/bitcoin and pkg/did/btco can be tested against an
// in-memory stub and run for real against rpcclient.
package ordinals

import "context"

// Inscription is a single ordinal inscription as reported by a provider.
type Inscription struct {
	ID          string // "<txid>i<index>"
	Satoshi     string
	Sequence    int
	ContentType string
	Content     []byte
	TxID        string
	Confirmed   bool
}

// CommitRevealRequest describes the inscription a caller wants created,
// following the commit-reveal pattern that prevents front-running: a commit
// transaction locks funds to a taproot script path only the caller knows,
// then the reveal transaction spends it and inscribes.
type CommitRevealRequest struct {
	ContentType    string
	Content        []byte
	RecipientAddr  string
	FeeRateSatPerVB int64
}

// InscriptionResult is returned once a commit-reveal inscription completes.
type InscriptionResult struct {
	CommitTxID string
	RevealTxID string
	Satoshi    string
	Inscription Inscription
}

// TransferRequest moves an inscribed satoshi to a new owner.
type TransferRequest struct {
	Satoshi         string
	RecipientAddr   string
	FeeRateSatPerVB int64
}

// Provider is the uniform contract the protocol needs from a Bitcoin
// ordinals backend.
type Provider interface {
	CreateInscription(ctx context.Context, req CommitRevealRequest) (*InscriptionResult, error)
	TransferInscription(ctx context.Context, req TransferRequest) (txID string, err error)
	GetInscriptionByID(ctx context.Context, id string) (*Inscription, error)
	GetInscriptionsBySatoshi(ctx context.Context, satoshi string) ([]Inscription, error)
	EstimateFee(ctx context.Context, targetBlocks int) (satPerVB int64, err error)
}
