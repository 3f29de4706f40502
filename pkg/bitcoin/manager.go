package bitcoin

import (
	"context"
	"fmt"

	"github.com/onionoriginals/sdk-go/pkg/feeoracle"
	"github.com/onionoriginals/sdk-go/pkg/ordinals"
)

// Manager is the single entry point the rest of the SDK uses for on-chain
// did:btco operations, wrapping an ordinals.Provider with fee estimation.
type Manager struct {
	Provider ordinals.Provider
	Fees     *feeoracle.Oracle
}

// NewManager wires a provider with a fee oracle reading estimates from it.
func NewManager(provider ordinals.Provider) *Manager {
	return &Manager{Provider: provider, Fees: feeoracle.New(provider)}
}

// Inscribe creates a single genesis or update inscription for a did:btco
// resource, using the fee oracle's estimate for a 3-block confirmation
// target.
func (m *Manager) Inscribe(ctx context.Context, contentType string, content []byte, recipientAddr string) (*ordinals.InscriptionResult, error) {
	rate, err := m.Fees.EstimateFeeRate(ctx, 3)
	if err != nil {
		return nil, fmt.Errorf("estimate fee rate: %w", err)
	}
	return m.Provider.CreateInscription(ctx, ordinals.CommitRevealRequest{
		ContentType:     contentType,
		Content:         content,
		RecipientAddr:   recipientAddr,
		FeeRateSatPerVB: rate,
	})
}

// Transfer moves an inscribed satoshi to a new owner.
func (m *Manager) Transfer(ctx context.Context, satoshi, recipientAddr string) (string, error) {
	rate, err := m.Fees.EstimateFeeRate(ctx, 3)
	if err != nil {
		return "", fmt.Errorf("estimate fee rate: %w", err)
	}
	return m.Provider.TransferInscription(ctx, ordinals.TransferRequest{
		Satoshi:         satoshi,
		RecipientAddr:   recipientAddr,
		FeeRateSatPerVB: rate,
	})
}

// InscribeBatch builds a manifest from entries and inscribes all of them,
// splitting a single fee budget proportionally across entries (§4.13).
func (m *Manager) InscribeBatch(ctx context.Context, entries []ManifestEntry, recipientAddr string, mode FailureMode) ([]BatchResult, error) {
	manifest, err := BuildManifest(entries)
	if err != nil {
		return nil, err
	}
	rate, err := m.Fees.EstimateFeeRate(ctx, 3)
	if err != nil {
		return nil, fmt.Errorf("estimate fee rate: %w", err)
	}
	var totalBytes int64
	for _, r := range manifest.Entries {
		totalBytes += int64(len(r.Content))
	}
	totalFee := rate * (totalBytes/4 + 200)
	return BatchInscribe(ctx, m.Provider, manifest, recipientAddr, totalFee, mode)
}

// Resolve looks up the current inscriptions on a satoshi, the data
// pkg/did/btco replays into a DID document.
func (m *Manager) Resolve(ctx context.Context, satoshi string) ([]ordinals.Inscription, error) {
	return m.Provider.GetInscriptionsBySatoshi(ctx, satoshi)
}
