package bitcoin

import (
	"context"
	"fmt"

	"github.com/onionoriginals/sdk-go/pkg/errs"
	"github.com/onionoriginals/sdk-go/pkg/merkle"
	"github.com/onionoriginals/sdk-go/pkg/ordinals"
)

// BatchResult reports one batch inscription attempt per manifest entry.
type BatchResult struct {
	ResourceID  string
	Inscription *ordinals.InscriptionResult
	FeeSat      int64
	Proof       *merkle.InclusionProof
	Err         error
}

// FailureMode controls whether BatchInscribe stops at the first error or
// keeps going and reports every failure alongside the successes (§4.13).
type FailureMode int

const (
	FailFast FailureMode = iota
	ContinueOnError
)

// BatchInscribe inscribes every manifest entry, splitting totalFeeSat
// proportionally to each entry's encoded size (Manifest.ProportionalFees)
// and attaching each entry's Merkle inclusion proof against the manifest
// root so a single entry's membership can be verified independently later.
func BatchInscribe(ctx context.Context, provider ordinals.Provider, manifest *Manifest, recipientAddr string, totalFeeSat int64, mode FailureMode) ([]BatchResult, error) {
	fees, err := manifest.ProportionalFees(totalFeeSat)
	if err != nil {
		return nil, fmt.Errorf("compute proportional fees: %w", err)
	}

	results := make([]BatchResult, len(manifest.Entries))
	for i, entry := range manifest.Entries {
		proof, err := manifest.ProofFor(i)
		if err != nil {
			results[i] = BatchResult{ResourceID: entry.ResourceID, Err: err}
			if mode == FailFast {
				return results[:i+1], err
			}
			continue
		}

		insc, err := provider.CreateInscription(ctx, ordinals.CommitRevealRequest{
			ContentType:   entry.ContentType,
			Content:       entry.Content,
			RecipientAddr: recipientAddr,
		})
		results[i] = BatchResult{ResourceID: entry.ResourceID, Inscription: insc, FeeSat: fees[i], Proof: proof, Err: err}
		if err != nil && mode == FailFast {
			return results[:i+1], fmt.Errorf("batch entry %s: %w", entry.ResourceID, err)
		}
	}

	var anyFailed bool
	for _, r := range results {
		if r.Err != nil {
			anyFailed = true
			break
		}
	}
	if anyFailed && mode == ContinueOnError {
		return results, errs.New(errs.KindBatchPartialFailure, "one or more batch entries failed")
	}
	return results, nil
}
