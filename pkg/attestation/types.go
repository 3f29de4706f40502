// Package attestation produces signed attestations that a resource's CEL
// entry has reached a given point in the migration lifecycle: a preliminary
// attestation once a checkpoint is recorded, and a final attestation once a
// layer transition has been broadcast and confirmed.
//
// Originals has a single controller per asset, not a validator set, so this
// is deliberately simpler than a multi-validator quorum scheme: one scheme,
// one key, two envelope stages.
package attestation

import (
	"time"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
)

// Scheme identifies the cryptographic scheme backing an attestation.
type Scheme string

const (
	SchemeEd25519    Scheme = "ed25519"
	SchemeBLS12381G2 Scheme = "bls12-381-g2"
)

func (s Scheme) IsValid() bool {
	switch s {
	case SchemeEd25519, SchemeBLS12381G2:
		return true
	default:
		return false
	}
}

// Stage distinguishes a preliminary attestation (checkpoint recorded, not
// yet broadcast) from a final one (transition confirmed on the target
// layer).
type Stage string

const (
	StagePreliminary Stage = "preliminary"
	StageFinal       Stage = "final"
)

// Message is the canonical, scheme-agnostic payload an attestation signs.
type Message struct {
	AssetDid     string `json:"assetDid"`
	CheckpointID string `json:"checkpointId"`
	FromMethod   string `json:"fromMethod"`
	ToMethod     string `json:"toMethod"`
	EntryHash    string `json:"entryHash"`
	Stage        Stage  `json:"stage"`
	AnchorTxID   string `json:"anchorTxId,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// Attestation is a signed Message.
type Attestation struct {
	Scheme      Scheme    `json:"scheme"`
	PublicKey   []byte    `json:"publicKey"`
	Signature   []byte    `json:"signature"`
	Message     Message   `json:"message"`
	MessageHash [32]byte  `json:"messageHash"`
	SignedAt    time.Time `json:"signedAt"`
}

func keyTypeForScheme(s Scheme) (crypto.KeyType, error) {
	switch s {
	case SchemeEd25519:
		return crypto.KeyTypeEd25519, nil
	case SchemeBLS12381G2:
		return crypto.KeyTypeBLS12381G2, nil
	default:
		return "", errUnsupportedScheme
	}
}
