// Package asset defines OriginalsAsset (§4.11): the in-memory view of an
// asset as the pure replay of its CEL, never a separately mutated object.
package asset

import (
	"fmt"

	"github.com/onionoriginals/sdk-go/pkg/cel"
	"github.com/onionoriginals/sdk-go/pkg/credential"
	"github.com/onionoriginals/sdk-go/pkg/crypto"
	"github.com/onionoriginals/sdk-go/pkg/didurl"
)

// OriginalsAsset is the replayed state of an asset's CEL (§3): every
// resource's version history, the layer bindings and current layer reached
// by migration, finality once anchored on btco, and the verifiable
// credentials issued over its lifecycle events.
type OriginalsAsset struct {
	ControllerDid string
	Log           *cel.Log
	Credentials   []*credential.Credential

	state *cel.AssetState
}

// Load verifies log's hash chain and signatures, replays it, and returns
// the resulting asset view. The asset's peer-layer binding is always
// controllerDid; webvh/btco bindings, if any, come from replaying
// ResourceMigrated entries.
func Load(controllerDid string, log *cel.Log, keyFor func(verificationMethod string) (crypto.KeyType, []byte, error)) (*OriginalsAsset, error) {
	if err := log.Verify(keyFor); err != nil {
		return nil, fmt.Errorf("verify cel: %w", err)
	}
	state, err := cel.Replay(log)
	if err != nil {
		return nil, fmt.Errorf("replay cel: %w", err)
	}
	state.Bindings.Peer = controllerDid
	return &OriginalsAsset{ControllerDid: controllerDid, Log: log, state: state}, nil
}

// GetResourceVersion returns a specific version of a resource.
func (a *OriginalsAsset) GetResourceVersion(resourceID string, version int) (*cel.ResourceVersion, error) {
	return cel.GetResourceVersion(a.state.Resources, resourceID, version)
}

// GetAllVersions returns every version of a resource in chain order.
func (a *OriginalsAsset) GetAllVersions(resourceID string) ([]cel.ResourceVersion, error) {
	return cel.GetAllVersions(a.state.Resources, resourceID)
}

// GetResourceHistory is an alias for GetAllVersions matching the
// resolver-facing naming used elsewhere in the lifecycle API (§4.11).
func (a *OriginalsAsset) GetResourceHistory(resourceID string) ([]cel.ResourceVersion, error) {
	return a.GetAllVersions(resourceID)
}

// CurrentVersion returns a resource's latest replayed version.
func (a *OriginalsAsset) CurrentVersion(resourceID string) (*cel.ResourceVersion, error) {
	state, ok := a.state.Resources[resourceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cel.ErrUnknownResource, resourceID)
	}
	return &state.Current, nil
}

// ResourceIDs returns every resource id the asset's CEL has created.
func (a *OriginalsAsset) ResourceIDs() []string {
	ids := make([]string, 0, len(a.state.Resources))
	for id := range a.state.Resources {
		ids = append(ids, id)
	}
	return ids
}

// CurrentLayer returns the DID layer the asset's most recent replayed
// migration reached (did:peer if it has never migrated).
func (a *OriginalsAsset) CurrentLayer() didurl.Method {
	return a.state.CurrentLayer
}

// Bindings returns the DID bound on each layer the asset has reached.
func (a *OriginalsAsset) Bindings() cel.LayerBindings {
	return a.state.Bindings
}

// Satoshi returns the satoshi the asset is inscribed on once anchored on
// btco, or "" before then.
func (a *OriginalsAsset) Satoshi() string {
	return a.state.Satoshi
}

// Finalized reports whether the asset is anchored on btco and therefore
// immutable (§3 global invariant: a finalized version's resources can no
// longer be updated; any attempt fails with LayerFinalityViolation). This
// is derived from the replayed CEL, not from any caller-supplied layer
// argument, so a caller cannot bypass finality by mislabeling a migration's
// source layer.
func (a *OriginalsAsset) Finalized() bool {
	return a.state.Finalized
}

// AddCredential records a verifiable credential issued over one of the
// asset's lifecycle events (§3: "the accumulated credentials").
func (a *OriginalsAsset) AddCredential(cred *credential.Credential) {
	a.Credentials = append(a.Credentials, cred)
}
