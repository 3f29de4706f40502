package asset

import (
	"fmt"

	"github.com/onionoriginals/sdk-go/pkg/cel"
	"github.com/onionoriginals/sdk-go/pkg/crypto"
)

// ProvenanceEntry is one human-facing line of an asset's verification
// report: a CEL entry annotated with its modern-naming operation type.
type ProvenanceEntry struct {
	EntryID       string
	ResourceID    string
	OperationType cel.OperationType
	Timestamp     string
}

// VerificationReport summarizes the result of re-checking an asset's full
// provenance: chain integrity, every entry's signature, and a replay.
type VerificationReport struct {
	Valid      bool
	Error      error
	Provenance []ProvenanceEntry
}

// Verify re-validates the asset's chain, every entry's signature, and its
// replay, returning a human-facing provenance report. Unlike Load, this
// never returns a Go error for verification failures — they are reported
// in the struct, since callers typically want to display a failed
// verification rather than branch on an error.
func (a *OriginalsAsset) Verify(keyFor func(verificationMethod string) (crypto.KeyType, []byte, error)) VerificationReport {
	report := VerificationReport{Valid: true}
	for _, e := range a.Log.Entries {
		report.Provenance = append(report.Provenance, ProvenanceEntry{
			EntryID:       e.ID,
			ResourceID:    e.ResourceID,
			OperationType: cel.DisplayOperationType(e.Type),
			Timestamp:     e.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	if err := a.Log.Verify(keyFor); err != nil {
		report.Valid = false
		report.Error = fmt.Errorf("chain/signature verification: %w", err)
		return report
	}
	if _, err := cel.Replay(a.Log); err != nil {
		report.Valid = false
		report.Error = fmt.Errorf("replay: %w", err)
	}
	return report
}
