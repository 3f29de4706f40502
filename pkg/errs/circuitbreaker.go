package errs

import (
	"sync"
	"time"
)

// breakerState is the internal state of a CircuitBreaker.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreaker guards an external collaborator (the ordinals provider, a
// fee oracle, a storage backend) the way §4.16 requires: it opens after a
// configurable number of consecutive failures, half-opens after a cooldown
// to probe recovery, and closes again on the first success.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold    int
	cooldown     time.Duration
	state        breakerState
	failureCount int
	openedAt     time.Time
}

// NewCircuitBreaker builds a breaker that opens after threshold consecutive
// failures and stays open for cooldown before allowing a half-open probe.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &CircuitBreaker{threshold: threshold, cooldown: cooldown}
}

// Allow reports whether a call may proceed. An open breaker denies calls
// until the cooldown elapses, at which point exactly one call is let through
// to probe recovery (half-open).
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return true
	case stateOpen:
		if time.Since(b.openedAt) >= b.cooldown {
			b.state = stateHalfOpen
			return true
		}
		return false
	case stateHalfOpen:
		// Only one probe in flight at a time; deny concurrent callers until
		// the probe resolves via RecordSuccess/RecordFailure.
		return false
	default:
		return true
	}
}

// RecordSuccess closes the breaker and resets the failure count.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = stateClosed
	b.failureCount = 0
}

// RecordFailure increments the failure count and opens the breaker once the
// threshold is reached, or immediately re-opens a half-open probe that failed.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateHalfOpen {
		b.state = stateOpen
		b.openedAt = time.Now()
		return
	}

	b.failureCount++
	if b.failureCount >= b.threshold {
		b.state = stateOpen
		b.openedAt = time.Now()
	}
}

// IsOpen reports whether the breaker is currently denying calls outright.
func (b *CircuitBreaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == stateOpen && time.Since(b.openedAt) < b.cooldown
}

// Do runs fn if the breaker allows it, recording the outcome. It returns
// KindCircuitOpen without calling fn when the breaker denies the call.
func (b *CircuitBreaker) Do(fn func() error) error {
	if !b.Allow() {
		return New(KindCircuitOpen, "circuit breaker open, cooldown in effect")
	}
	if err := fn(); err != nil {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return nil
}
