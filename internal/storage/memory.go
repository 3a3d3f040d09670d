package storage

import (
	"context"
	"sync"

	"consentd/pkg/platform/sentinel"
)

// Memory is an in-process Adapter used in development and tests, and as the
// fallback when no Redis is configured.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]string
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]string)}
}

func (m *Memory) Available(_ context.Context) bool {
	return true
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return blob, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = value
	return nil
}
