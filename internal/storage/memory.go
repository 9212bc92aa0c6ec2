package storage

import (
	"context"
	"sync"
)

// MemoryMedium is a mutex-guarded map. Tests instantiate a fresh one per
// case; an optional byte quota exercises the quota-exceeded path.
type MemoryMedium struct {
	mu       sync.Mutex
	items    map[string][]byte
	maxBytes int
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{items: make(map[string][]byte)}
}

// NewMemoryMediumWithQuota caps the total stored bytes, mimicking a medium
// that has run out of space.
func NewMemoryMediumWithQuota(maxBytes int) *MemoryMedium {
	return &MemoryMedium{items: make(map[string][]byte), maxBytes: maxBytes}
}

func (m *MemoryMedium) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	out := append([]byte(nil), v...)
	return out, true, nil
}

func (m *MemoryMedium) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxBytes > 0 {
		total := len(value)
		for k, v := range m.items {
			if k == key {
				continue
			}
			total += len(v)
		}
		if total > m.maxBytes {
			return ErrQuotaExceeded
		}
	}
	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryMedium) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *MemoryMedium) Close() error { return nil }

// Corrupt overwrites a key with bytes that are not valid JSON. Only tests
// use it, to exercise the corruption-recovery path.
func (m *MemoryMedium) Corrupt(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = []byte("{not json")
}
