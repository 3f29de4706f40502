// Package cel implements the cryptographically-chained event log that is
// the sole source of truth for an Originals asset's state (§4.10, §4.11):
// every mutation is an appended, hash-chained, signed entry, and current
// state is always a deterministic replay of the log rather than separately
// persisted.
package cel

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onionoriginals/sdk-go/pkg/canonical"
	"github.com/onionoriginals/sdk-go/pkg/signer"
)

// OperationType names the kind of mutation an Entry records. The five
// values below are the closed vocabulary a conformant log is built from;
// legacy.go maps older logs' "create"/"update" type strings onto
// OpResourceAdded/OpResourceUpdated when Replay reads them; the stored
// strings stay as written, so their hashes keep verifying.
type OperationType string

const (
	OpResourceAdded       OperationType = "ResourceAdded"
	OpResourceUpdated     OperationType = "ResourceUpdated"
	OpResourceMigrated    OperationType = "ResourceMigrated"
	OpResourceTransferred OperationType = "ResourceTransferred"
	OpResourceDeactivated OperationType = "ResourceDeactivated"
)

// Entry is a single append-only event in an asset's CEL.
type Entry struct {
	ID                string                     `json:"id"`
	Type              OperationType              `json:"type"`
	ResourceID        string                     `json:"resourceId"`
	PreviousEntryHash string                     `json:"previousEntryHash"`
	EntryHash         string                     `json:"entryHash"`
	Timestamp         time.Time                  `json:"timestamp"`
	Data              json.RawMessage            `json:"data"`
	Proof             *signer.DataIntegrityProof `json:"proof,omitempty"`
}

// hashableCopy returns the entry with EntryHash and Proof cleared, the form
// that is canonicalized and hashed to produce EntryHash and to sign.
func (e Entry) hashableCopy() Entry {
	e.EntryHash = ""
	e.Proof = nil
	return e
}

// ComputeEntryHash returns the JCS-SHA256 digest of the entry's hashable form.
func ComputeEntryHash(e Entry) (string, error) {
	raw, err := json.Marshal(e.hashableCopy())
	if err != nil {
		return "", fmt.Errorf("encode cel entry: %w", err)
	}
	digest, _, err := canonical.HashJCS(json.RawMessage(raw))
	if err != nil {
		return "", fmt.Errorf("hash cel entry: %w", err)
	}
	return digest, nil
}

// NewEntry builds an unsigned, unhashed entry ready for Log.Append.
func NewEntry(opType OperationType, resourceID string, data any) (Entry, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Entry{}, fmt.Errorf("encode cel entry data: %w", err)
	}
	return Entry{
		ID:         "urn:uuid:" + uuid.NewString(),
		Type:       opType,
		ResourceID: resourceID,
		Timestamp:  time.Now().UTC(),
		Data:       raw,
	}, nil
}

// ToSigningMap round-trips the entry's hashable form into a plain map, the
// shape pkg/signer canonicalizes and hashes.
func (e Entry) ToSigningMap() (map[string]any, error) {
	raw, err := json.Marshal(e.hashableCopy())
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
