package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu         sync.Mutex
	partitions map[string]*memoryPartition
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{partitions: make(map[string]*memoryPartition)}
}

var _ Store = (*MemoryStore)(nil)

// Open returns the named partition, creating it on first use.
func (s *MemoryStore) Open(name string) (Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partitions[name]
	if !ok {
		p = &memoryPartition{entries: make(map[string]Entry)}
		s.partitions[name] = p
	}
	return p, nil
}

// Names lists existing partition names.
func (s *MemoryStore) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.partitions))
	for name := range s.partitions {
		names = append(names, name)
	}
	return names, nil
}

// Drop removes the named partition and its contents.
func (s *MemoryStore) Drop(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partitions, name)
	return nil
}

type memoryPartition struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func (p *memoryPartition) Match(ctx context.Context, key string) (*Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[key]
	if !ok {
		return nil, nil
	}
	// copy so callers cannot mutate the stored entry
	out := e
	out.Body = append([]byte(nil), e.Body...)
	out.Header = e.Header.Clone()
	return &out, nil
}

func (p *memoryPartition) Put(ctx context.Context, key string, e *Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	stored := *e
	stored.Body = append([]byte(nil), e.Body...)
	stored.Header = e.Header.Clone()
	p.entries[key] = stored
	return nil
}

func (p *memoryPartition) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, key)
	return nil
}

func (p *memoryPartition) Keys(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.entries))
	for k := range p.entries {
		keys = append(keys, k)
	}
	return keys, nil
}
