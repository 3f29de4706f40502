// Package feeoracle estimates Bitcoin transaction fee rates for a target
// confirmation window (§4.9), bounding results to a sane [1, 10000] sat/vB
// range and falling back to a conservative default when the upstream
// estimator is unavailable.
package feeoracle

import (
	"context"

	"github.com/onionoriginals/sdk-go/pkg/errs"
)

const (
	minSatPerVB = 1
	maxSatPerVB = 10000

	// fallbackSatPerVB is used when the upstream estimator errors or the
	// circuit breaker is open; it trades cost for a high likelihood of
	// confirmation rather than silently underpaying.
	fallbackSatPerVB = 50
)

// Estimator is the minimal upstream fee source an Oracle wraps; satisfied
// by pkg/ordinals.Provider.
type Estimator interface {
	EstimateFee(ctx context.Context, targetBlocks int) (satPerVB int64, err error)
}

// Oracle estimates fee rates, clamping and falling back around a possibly
// unreliable upstream Estimator.
type Oracle struct {
	upstream Estimator
	breaker  *errs.CircuitBreaker
}

// New wraps upstream with bounds-checking and circuit-breaker protection.
func New(upstream Estimator) *Oracle {
	return &Oracle{upstream: upstream, breaker: errs.NewCircuitBreaker(5, 0)}
}

// EstimateFeeRate returns a sat/vB fee rate for confirmation within
// targetBlocks, in [1, 10000]. An upstream value outside that range is
// clamped to the nearer bound. If the upstream estimator errors or its
// circuit breaker is open, it returns the bounded fallback rate rather
// than erroring, since callers need a usable number to build transactions.
func (o *Oracle) EstimateFeeRate(ctx context.Context, targetBlocks int) (int64, error) {
	if targetBlocks < 1 {
		return 0, errs.New(errs.KindValidationFailed, "targetBlocks must be >= 1")
	}

	var rate int64
	err := o.breaker.Do(func() error {
		r, err := o.upstream.EstimateFee(ctx, targetBlocks)
		if err != nil {
			return err
		}
		rate = r
		return nil
	})
	if err != nil {
		return fallbackSatPerVB, nil
	}
	return clamp(rate), nil
}

func clamp(rate int64) int64 {
	if rate < minSatPerVB {
		return minSatPerVB
	}
	if rate > maxSatPerVB {
		return maxSatPerVB
	}
	return rate
}
