package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/onionoriginals/sdk-go/pkg/crypto"
)

// Memory is an in-process Adapter backed by a map, used in tests and for
// local development without a real backing store.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{blobs: map[string][]byte{}}
}

func verifyKey(key string, content []byte) error {
	if err := crypto.ValidateHashHex(key); err != nil {
		return fmt.Errorf("storage key: %w", err)
	}
	if got := crypto.Sha256Hex(content); got != key {
		return fmt.Errorf("storage key %s does not match content digest %s", key, got)
	}
	return nil
}

func (m *Memory) Put(ctx context.Context, key string, content []byte) error {
	if err := verifyKey(key, content); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), content...)
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[key]
	return ok, nil
}
