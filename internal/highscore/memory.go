package highscore

import (
	"context"
	"sort"
	"sync"
)

// MemoryBackend keeps records in process memory. Used in tests and for
// throwaway sessions.
type MemoryBackend struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]Record)}
}

func (m *MemoryBackend) Load(_ context.Context, key string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	return rec, ok, nil
}

func (m *MemoryBackend) Update(_ context.Context, key string, fn func(Record) Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.records[key]
	if !ok {
		cur = Record{Key: key}
	}
	next := fn(cur)
	next.Key = key
	m.records[key] = next
	return next, nil
}

func (m *MemoryBackend) List(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]Record)
	return nil
}
