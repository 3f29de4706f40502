package cel

import (
	"encoding/json"
	"fmt"

	"github.com/onionoriginals/sdk-go/pkg/didurl"
	"github.com/onionoriginals/sdk-go/pkg/lifecycle"
)

// ResourceVersion is one version of a resource, as of the entry that produced it.
type ResourceVersion struct {
	Version     int
	ContentHash string
	EntryID     string
	Timestamp   string
	Deactivated bool
}

// ResourceState is a resource's fully replayed state: its current version
// plus its whole version history, in chain order, and whether it has been
// deactivated (a terminal state: no further entries may target it).
type ResourceState struct {
	ResourceID  string
	Current     ResourceVersion
	History     []ResourceVersion
	Deactivated bool
}

// LayerBindings records which DID an asset resolves to on each layer it has
// reached (§3: "the set of layer bindings {peer, webvh?, btco?}"). Peer is
// populated by the caller of Load from the asset's controller DID, since
// Replay itself only sees webvh/btco evidence carried in migration entries.
type LayerBindings struct {
	Peer  string
	Webvh string
	Btco  string
}

// AssetState is an asset's fully replayed state (§3, §4.11): every
// resource's version history, the layer bindings and current layer reached
// by migration, the inscribed satoshi once anchored, and whether the asset
// is finalized (anchored on btco, and therefore immutable).
type AssetState struct {
	Resources    map[string]*ResourceState
	Bindings     LayerBindings
	CurrentLayer didurl.Method
	Satoshi      string
	Finalized    bool
	Migrations   []MigrationData
	Transfers    []TransferData
}

// Replay deterministically reconstructs an asset's state from a verified
// log. It does not itself verify the chain or signatures; callers should
// call Log.Verify first (§4.11: state is always a pure function of the
// log, never separately mutated).
func Replay(log *Log) (*AssetState, error) {
	asset := &AssetState{Resources: map[string]*ResourceState{}, CurrentLayer: didurl.MethodPeer}

	for _, e := range log.Entries {
		op := DisplayOperationType(e.Type)

		switch op {
		case OpResourceAdded:
			if _, ok := asset.Resources[e.ResourceID]; ok {
				return nil, fmt.Errorf("%w: %s created twice", ErrReplayFailed, e.ResourceID)
			}
			var r Resource
			if err := json.Unmarshal(e.Data, &r); err != nil {
				return nil, fmt.Errorf("%w: entry %s: %v", ErrReplayFailed, e.ID, err)
			}
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("%w: entry %s: %v", ErrReplayFailed, e.ID, err)
			}
			state := &ResourceState{ResourceID: e.ResourceID}
			asset.Resources[e.ResourceID] = state
			appendVersion(state, r, e)

		case OpResourceUpdated:
			state, ok := asset.Resources[e.ResourceID]
			if !ok {
				return nil, fmt.Errorf("%w: %s updated before creation", ErrUnknownResource, e.ResourceID)
			}
			if asset.Finalized {
				return nil, fmt.Errorf("%w: entry %s: finalized asset cannot be updated", ErrLayerFinalityViolation, e.ID)
			}
			if state.Deactivated {
				return nil, fmt.Errorf("%w: entry %s: resource %s is deactivated", ErrInvalidOperation, e.ID, e.ResourceID)
			}
			var r Resource
			if err := json.Unmarshal(e.Data, &r); err != nil {
				return nil, fmt.Errorf("%w: entry %s: %v", ErrReplayFailed, e.ID, err)
			}
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("%w: entry %s: %v", ErrReplayFailed, e.ID, err)
			}
			if r.PreviousVersionHash != state.Current.ContentHash {
				return nil, fmt.Errorf("%w: entry %s: previousVersionHash %q does not match current hash %q", ErrInvalidOperation, e.ID, r.PreviousVersionHash, state.Current.ContentHash)
			}
			if r.ContentHash == state.Current.ContentHash {
				return nil, fmt.Errorf("%w: entry %s: updated content hash must differ from previous version", ErrInvalidOperation, e.ID)
			}
			appendVersion(state, r, e)

		case OpResourceDeactivated:
			state, ok := asset.Resources[e.ResourceID]
			if !ok {
				return nil, fmt.Errorf("%w: %s deactivated before creation", ErrUnknownResource, e.ResourceID)
			}
			if state.Deactivated {
				return nil, fmt.Errorf("%w: entry %s: resource %s already deactivated", ErrInvalidOperation, e.ID, e.ResourceID)
			}
			state.Deactivated = true
			state.Current.Deactivated = true

		case OpResourceMigrated:
			var data MigrationData
			if err := json.Unmarshal(e.Data, &data); err != nil {
				return nil, fmt.Errorf("%w: entry %s: %v", ErrReplayFailed, e.ID, err)
			}
			from, to := didurl.Method(data.From), didurl.Method(data.To)
			if from != asset.CurrentLayer {
				return nil, fmt.Errorf("%w: entry %s: migration from %s does not match current layer %s", ErrInvalidOperation, e.ID, from, asset.CurrentLayer)
			}
			if err := lifecycle.ValidateLayerTransition(from, to); err != nil {
				return nil, fmt.Errorf("%w: entry %s: %v", ErrInvalidOperation, e.ID, err)
			}
			switch to {
			case didurl.MethodWebvh:
				if data.TargetDID == "" {
					return nil, fmt.Errorf("%w: entry %s: webvh migration requires a resolvable target did", ErrInvalidOperation, e.ID)
				}
				asset.Bindings.Webvh = data.TargetDID
			case didurl.MethodBtco:
				if data.InscriptionID == "" || data.Satoshi == "" || data.RevealTxID == "" {
					return nil, fmt.Errorf("%w: entry %s: btco migration requires inscriptionId, satoshi and revealTxId", ErrInvalidOperation, e.ID)
				}
				asset.Bindings.Btco = data.TargetDID
				asset.Satoshi = data.Satoshi
				asset.Finalized = true
			}
			asset.CurrentLayer = to
			asset.Migrations = append(asset.Migrations, data)

		case OpResourceTransferred:
			var data TransferData
			if err := json.Unmarshal(e.Data, &data); err != nil {
				return nil, fmt.Errorf("%w: entry %s: %v", ErrReplayFailed, e.ID, err)
			}
			if asset.CurrentLayer != didurl.MethodBtco {
				return nil, fmt.Errorf("%w: entry %s: transfer only valid once anchored on btco", ErrInvalidOperation, e.ID)
			}
			if data.TransactionID == "" {
				return nil, fmt.Errorf("%w: entry %s: transfer missing transaction id", ErrInvalidOperation, e.ID)
			}
			if data.Satoshi != asset.Satoshi {
				return nil, fmt.Errorf("%w: entry %s: transfer changed satoshi from %s to %s", ErrInvalidOperation, e.ID, asset.Satoshi, data.Satoshi)
			}
			asset.Transfers = append(asset.Transfers, data)

		default:
			return nil, fmt.Errorf("%w: unknown operation type %q", ErrInvalidOperation, e.Type)
		}
	}

	return asset, nil
}

func appendVersion(state *ResourceState, r Resource, e Entry) {
	version := ResourceVersion{
		Version:     len(state.History) + 1,
		ContentHash: r.ContentHash,
		EntryID:     e.ID,
		Timestamp:   e.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	}
	state.History = append(state.History, version)
	state.Current = version
}

// GetResourceVersion returns a specific 1-indexed version of a resource.
func GetResourceVersion(resources map[string]*ResourceState, resourceID string, version int) (*ResourceVersion, error) {
	state, ok := resources[resourceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resourceID)
	}
	if version < 1 || version > len(state.History) {
		return nil, fmt.Errorf("%w: version %d out of range for %s", ErrUnknownResource, version, resourceID)
	}
	return &state.History[version-1], nil
}

// GetAllVersions returns every version of a resource in chain order.
func GetAllVersions(resources map[string]*ResourceState, resourceID string) ([]ResourceVersion, error) {
	state, ok := resources[resourceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resourceID)
	}
	return state.History, nil
}
