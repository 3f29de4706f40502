// Package lifecycle implements the cross-layer migration state machine
// (§4.12): peer -> webvh -> btco is unidirectional, a btco-anchored asset's
// layer is permanently locked, and every migration attempt passes through
// checkpointing before it is allowed to mutate anything.
package lifecycle

import (
	"time"

	"github.com/onionoriginals/sdk-go/pkg/didurl"
)

// State is a migration's position in the state machine.
type State string

const (
	StateValidating   State = "VALIDATING"
	StateCheckpointed State = "CHECKPOINTED"
	StateInProgress   State = "IN_PROGRESS"
	StateCompleted    State = "COMPLETED"
	StateFailed       State = "FAILED"
	StateQuarantine   State = "QUARANTINE"
)

// layerRank orders the three DID layers for the unidirectional rule:
// a migration is only legal from a lower rank to a strictly higher one.
var layerRank = map[didurl.Method]int{
	didurl.MethodPeer:  0,
	didurl.MethodWebvh: 1,
	didurl.MethodBtco:  2,
}

// Checkpoint is the durable record of a single migration attempt, written
// before any mutation occurs so a crash mid-migration can resume or
// quarantine safely.
type Checkpoint struct {
	ID         string
	AssetDid   string
	FromMethod didurl.Method
	ToMethod   didurl.Method
	State      State
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Reason     string // set on FAILED/QUARANTINE
}
