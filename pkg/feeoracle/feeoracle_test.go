package feeoracle

import (
	"context"
	"errors"
	"testing"
)

type fakeEstimator struct {
	rate int64
	err  error
}

func (f *fakeEstimator) EstimateFee(ctx context.Context, targetBlocks int) (int64, error) {
	return f.rate, f.err
}

func TestEstimateFeeRateClampsHigh(t *testing.T) {
	o := New(&fakeEstimator{rate: 50000})
	rate, err := o.EstimateFeeRate(context.Background(), 1)
	if err != nil {
		t.Fatalf("EstimateFeeRate: %v", err)
	}
	if rate != maxSatPerVB {
		t.Fatalf("rate = %d, want %d", rate, maxSatPerVB)
	}
}

func TestEstimateFeeRateFallsBackOnError(t *testing.T) {
	o := New(&fakeEstimator{err: errors.New("rpc down")})
	rate, err := o.EstimateFeeRate(context.Background(), 3)
	if err != nil {
		t.Fatalf("EstimateFeeRate: %v", err)
	}
	if rate != fallbackSatPerVB {
		t.Fatalf("rate = %d, want fallback %d", rate, fallbackSatPerVB)
	}
}

func TestEstimateFeeRateRejectsInvalidTarget(t *testing.T) {
	o := New(&fakeEstimator{rate: 10})
	if _, err := o.EstimateFeeRate(context.Background(), 0); err == nil {
		t.Fatal("expected error for targetBlocks < 1")
	}
}
