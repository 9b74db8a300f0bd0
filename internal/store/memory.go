package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory store used for unit tests and
// local development. Version tokens are a monotonically increasing counter
// rendered as "v<N>".
type MemoryStore struct {
	mu      sync.Mutex
	content []byte
	version string
	counter int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Seed replaces the stored content unconditionally and returns the new
// version token. Test convenience.
func (m *MemoryStore) Seed(content []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit(content)
}

func (m *MemoryStore) commit(content []byte) string {
	m.counter++
	m.content = append([]byte(nil), content...)
	m.version = fmt.Sprintf("v%d", m.counter)
	return m.version
}

func (m *MemoryStore) Read(ctx context.Context) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version == "" {
		return nil, ErrNotFound
	}
	return &Document{Content: append([]byte(nil), m.content...), Version: m.version}, nil
}

func (m *MemoryStore) Write(ctx context.Context, content []byte, expectedVersion string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expectedVersion != m.version {
		return "", ErrConflict
	}
	return m.commit(content), nil
}
