package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps blobs in a map. Used by tests and STORAGE_DRIVER=memory.
type MemoryStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Objects: map[string][]byte{}}
}

func (m *MemoryStore) Put(ctx context.Context, bucket, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPayload
	}
	key := joinKey(bucket, filename)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = append([]byte(nil), data...)
	return key, nil
}

func (m *MemoryStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, path)
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}
