package persistence

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory keeps collections in process memory. It is the default backend
// when no store is configured and the workhorse of the test suite.
type Memory struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]json.RawMessage)}
}

func (m *Memory) ReadCollection(_ context.Context, key, userID string) (json.RawMessage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[key+":"+userID]
	if !ok {
		return nil, false, nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, true, nil
}

func (m *Memory) WriteCollection(_ context.Context, key, userID string, data json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make(json.RawMessage, len(data))
	copy(stored, data)
	m.data[key+":"+userID] = stored
	return nil
}
