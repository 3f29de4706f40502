package attestation

import (
	"context"
	"fmt"
	"time"

	"github.com/onionoriginals/sdk-go/pkg/canonical"
	"github.com/onionoriginals/sdk-go/pkg/crypto"
)

// Manager issues and verifies preliminary/final attestations over a
// migration checkpoint using a single controller key.
type Manager struct {
	Scheme     Scheme
	PublicKey  []byte
	PrivateKey []byte
}

// NewManager builds a Manager from a controller keypair. keyPair.Type must
// be one Scheme recognizes (Ed25519 or BLS12-381-G2); secp256k1 controller
// keys sign Bitcoin transactions directly and never produce attestations.
func NewManager(keyPair *crypto.KeyPair) (*Manager, error) {
	var scheme Scheme
	switch keyPair.Type {
	case crypto.KeyTypeEd25519:
		scheme = SchemeEd25519
	case crypto.KeyTypeBLS12381G2:
		scheme = SchemeBLS12381G2
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedScheme, keyPair.Type)
	}
	return &Manager{Scheme: scheme, PublicKey: keyPair.PublicKey, PrivateKey: keyPair.PrivateKey}, nil
}

func hashMessage(msg Message) ([32]byte, error) {
	canon, err := canonical.JCS(msg)
	if err != nil {
		return [32]byte{}, fmt.Errorf("canonicalize attestation message: %w", err)
	}
	return crypto.Sha256(canon), nil
}

func (m *Manager) sign(_ context.Context, msg Message) (*Attestation, error) {
	keyType, err := keyTypeForScheme(m.Scheme)
	if err != nil {
		return nil, err
	}
	hash, err := hashMessage(msg)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(keyType, m.PrivateKey, hash[:])
	if err != nil {
		return nil, fmt.Errorf("sign attestation: %w", err)
	}
	return &Attestation{
		Scheme:      m.Scheme,
		PublicKey:   m.PublicKey,
		Signature:   sig,
		Message:     msg,
		MessageHash: hash,
		SignedAt:    time.Now().UTC(),
	}, nil
}

// AttestPreliminary signs a Message recording that a migration checkpoint
// was recorded for assetDid, before any on-chain broadcast has happened.
func (m *Manager) AttestPreliminary(ctx context.Context, assetDid, checkpointID, fromMethod, toMethod, entryHash string, timestamp int64) (*Attestation, error) {
	return m.sign(ctx, Message{
		AssetDid:     assetDid,
		CheckpointID: checkpointID,
		FromMethod:   fromMethod,
		ToMethod:     toMethod,
		EntryHash:    entryHash,
		Stage:        StagePreliminary,
		Timestamp:    timestamp,
	})
}

// AttestFinal signs a Message recording that the migration named by
// preliminary has been confirmed on the target layer at anchorTxID.
// preliminary must be a preliminary-stage attestation; the final message is
// a copy of its message, checkpoint and entry hash included, with only the
// stage, anchor transaction id and timestamp replaced.
func (m *Manager) AttestFinal(ctx context.Context, preliminary *Attestation, anchorTxID string, timestamp int64) (*Attestation, error) {
	if preliminary == nil || preliminary.Message.Stage != StagePreliminary {
		return nil, errStageMismatch
	}
	msg := preliminary.Message
	msg.Stage = StageFinal
	msg.AnchorTxID = anchorTxID
	msg.Timestamp = timestamp
	return m.sign(ctx, msg)
}

// Verify recomputes att's message hash and checks its signature under
// pubKey for the attestation's scheme.
func Verify(att *Attestation, pubKey []byte) error {
	keyType, err := keyTypeForScheme(att.Scheme)
	if err != nil {
		return err
	}
	hash, err := hashMessage(att.Message)
	if err != nil {
		return err
	}
	if hash != att.MessageHash {
		return fmt.Errorf("%w: message hash mismatch", errVerificationFailed)
	}
	ok, err := crypto.Verify(keyType, pubKey, hash[:], att.Signature)
	if err != nil {
		return fmt.Errorf("verify attestation: %w", err)
	}
	if !ok {
		return errVerificationFailed
	}
	return nil
}
