package assessment

import (
	"context"
	"sync"
)

// MemoryKV keeps blobs in process memory, the server-side analogue of a
// browser's local storage.
type MemoryKV struct {
	mu    sync.RWMutex
	blobs map[string]map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{blobs: map[string]map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, owner, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[owner][key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryKV) Put(_ context.Context, owner, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blobs[owner] == nil {
		m.blobs[owner] = map[string][]byte{}
	}
	m.blobs[owner][key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, owner, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs[owner], key)
	return nil
}
