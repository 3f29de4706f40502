package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onionoriginals/sdk-go/pkg/didurl"
	"github.com/onionoriginals/sdk-go/pkg/errs"
)

// validTransitions is the closed set of allowed State -> State edges.
var validTransitions = map[State][]State{
	StateValidating:   {StateCheckpointed, StateFailed},
	StateCheckpointed: {StateInProgress, StateFailed},
	StateInProgress:   {StateCompleted, StateFailed},
	StateFailed:       {StateQuarantine},
	StateCompleted:    {},
	StateQuarantine:   {},
}

// StateMachine drives a single migration's checkpointed lifecycle, backed
// by a Store for durability across process restarts.
type StateMachine struct {
	store Store
	ttl   time.Duration
}

// NewStateMachine returns a state machine persisting checkpoints to store,
// with checkpoints expiring (and eligible for garbage collection) after ttl.
func NewStateMachine(store Store, ttl time.Duration) *StateMachine {
	return &StateMachine{store: store, ttl: ttl}
}

// ValidateLayerTransition enforces the unidirectional migration rule
// (§4.12): peer -> webvh -> btco only, and never out of btco once anchored.
func ValidateLayerTransition(from, to didurl.Method) error {
	fromRank, ok := layerRank[from]
	if !ok {
		return errs.New(errs.KindValidationFailed, "unknown source layer "+string(from))
	}
	toRank, ok := layerRank[to]
	if !ok {
		return errs.New(errs.KindValidationFailed, "unknown destination layer "+string(to))
	}
	if from == didurl.MethodBtco {
		return errs.New(errs.KindLayerFinalityViolation, "asset is finalized on btco and cannot migrate further")
	}
	if toRank <= fromRank {
		return errs.New(errs.KindInvalidTransition, fmt.Sprintf("migration from %s to %s is not forward", from, to))
	}
	return nil
}

// Begin validates the requested migration and writes its VALIDATING
// checkpoint.
func (sm *StateMachine) Begin(ctx context.Context, assetDid string, from, to didurl.Method) (*Checkpoint, error) {
	if err := ValidateLayerTransition(from, to); err != nil {
		return nil, err
	}
	cp := &Checkpoint{
		ID:         uuid.NewString(),
		AssetDid:   assetDid,
		FromMethod: from,
		ToMethod:   to,
		State:      StateValidating,
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  time.Now().UTC().Add(sm.ttl),
	}
	if err := sm.store.Save(ctx, cp); err != nil {
		return nil, fmt.Errorf("save checkpoint: %w", err)
	}
	return cp, nil
}

// Advance transitions a checkpoint to the next state, enforcing the closed
// transition table, and persists the new state.
func (sm *StateMachine) Advance(ctx context.Context, checkpointID string, next State, reason string) (*Checkpoint, error) {
	cp, err := sm.store.Get(ctx, checkpointID)
	if err != nil {
		return nil, err
	}
	if !isAllowed(cp.State, next) {
		return nil, errs.New(errs.KindInvalidTransition, fmt.Sprintf("cannot transition %s -> %s", cp.State, next))
	}
	cp.State = next
	if next == StateFailed || next == StateQuarantine {
		cp.Reason = reason
	}
	if err := sm.store.Save(ctx, cp); err != nil {
		return nil, fmt.Errorf("save checkpoint: %w", err)
	}
	return cp, nil
}

func isAllowed(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
