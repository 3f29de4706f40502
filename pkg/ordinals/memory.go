package ordinals

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/onionoriginals/sdk-go/pkg/errs"
)

// Memory is an in-process Provider stub for tests and local development. It
// never touches a real chain; satoshi numbers come from a counter starting
// at 1,000,000, commit and reveal txids are hashed from the content and that
// satoshi, and transfer txids mix in a random UUID, so they differ per call.
type Memory struct {
	mu           sync.Mutex
	bySatoshi    map[string][]Inscription
	byID         map[string]Inscription
	nextSatoshi  int64
	breaker      *errs.CircuitBreaker
}

// NewMemory returns an empty in-memory provider. A circuit breaker guards
// every call except EstimateFee so pkg/bitcoin and pkg/ordinals callers can exercise the same
// resilience path they would against a flaky live rpcclient backend.
func NewMemory() *Memory {
	return &Memory{
		bySatoshi:   map[string][]Inscription{},
		byID:        map[string]Inscription{},
		nextSatoshi: 1_000_000,
		breaker:     errs.NewCircuitBreaker(5, 0),
	}
}

func (m *Memory) CreateInscription(ctx context.Context, req CommitRevealRequest) (*InscriptionResult, error) {
	var result *InscriptionResult
	err := m.breaker.Do(func() error {
		m.mu.Lock()
		defer m.mu.Unlock()

		satoshi := fmt.Sprintf("%d", m.nextSatoshi)
		m.nextSatoshi++

		commitTxID := syntheticTxID("commit", req.Content, satoshi)
		revealTxID := syntheticTxID("reveal", req.Content, satoshi)
		insc := Inscription{
			ID:          revealTxID + "i0",
			Satoshi:     satoshi,
			Sequence:    len(m.bySatoshi[satoshi]),
			ContentType: req.ContentType,
			Content:     req.Content,
			TxID:        revealTxID,
			Confirmed:   true,
		}
		m.bySatoshi[satoshi] = append(m.bySatoshi[satoshi], insc)
		m.byID[insc.ID] = insc

		result = &InscriptionResult{CommitTxID: commitTxID, RevealTxID: revealTxID, Satoshi: satoshi, Inscription: insc}
		return nil
	})
	return result, err
}

func (m *Memory) TransferInscription(ctx context.Context, req TransferRequest) (string, error) {
	var txID string
	err := m.breaker.Do(func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.bySatoshi[req.Satoshi]; !ok {
			return fmt.Errorf("no inscriptions on satoshi %s", req.Satoshi)
		}
		txID = syntheticTxID("transfer", []byte(req.RecipientAddr), req.Satoshi+uuid.NewString())
		return nil
	})
	return txID, err
}

func (m *Memory) GetInscriptionByID(ctx context.Context, id string) (*Inscription, error) {
	var out *Inscription
	err := m.breaker.Do(func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		insc, ok := m.byID[id]
		if !ok {
			return errs.New(errs.KindNotFound, "inscription not found: "+id)
		}
		out = &insc
		return nil
	})
	return out, err
}

func (m *Memory) GetInscriptionsBySatoshi(ctx context.Context, satoshi string) ([]Inscription, error) {
	var out []Inscription
	err := m.breaker.Do(func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		out = append([]Inscription(nil), m.bySatoshi[satoshi]...)
		return nil
	})
	return out, err
}

func (m *Memory) EstimateFee(ctx context.Context, targetBlocks int) (int64, error) {
	if targetBlocks <= 1 {
		return 20, nil
	}
	return 5, nil
}

func syntheticTxID(tag string, content []byte, salt string) string {
	h := sha256.Sum256(append([]byte(tag+salt), content...))
	return hex.EncodeToString(h[:])
}
