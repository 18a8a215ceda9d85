package fingerprint

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Store that holds no fingerprint for a key.
var ErrNotFound = errors.New("fingerprint not found")

// Store persists one fingerprint per artifact key. Implementations are not
// required to be safe for concurrent runs.
type Store interface {
	Load(ctx context.Context, key string) (Fingerprint, error)
	Save(ctx context.Context, key string, fp Fingerprint) error
}

// MemoryStore keeps fingerprints in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]Fingerprint
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Fingerprint)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (Fingerprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fp, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return fp, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, fp Fingerprint) error {
	m.mu.Lock()
	m.data[key] = fp
	m.mu.Unlock()
	return nil
}
