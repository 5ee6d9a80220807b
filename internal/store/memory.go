package store

import (
	"context"
	"sort"
	"sync"

	"course-catalog/internal/mappers"
)

// Memory keeps items in process. It backs dry runs and tests.
type Memory struct {
	mu    sync.RWMutex
	parts map[string]map[string]mappers.Item
}

func NewMemory() *Memory {
	return &Memory{parts: make(map[string]map[string]mappers.Item)}
}

func (m *Memory) BatchPut(_ context.Context, items []mappers.Item) ([]mappers.Item, error) {
	if err := CheckBatch(items); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		p, ok := m.parts[it.PartitionKey]
		if !ok {
			p = make(map[string]mappers.Item)
			m.parts[it.PartitionKey] = p
		}
		p[it.SortKey] = it
	}
	return nil, nil
}

func (m *Memory) FindCourse(_ context.Context, title string) (mappers.Item, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found []mappers.Item
	for _, p := range m.parts {
		for _, it := range p {
			if it.Type == mappers.TypeCourse && it.Title == title {
				found = append(found, it)
			}
		}
	}
	if len(found) == 0 {
		return mappers.Item{}, false, nil
	}
	// oldest first, so repeated inserts resolve to the original record
	sort.Slice(found, func(i, j int) bool {
		if found[i].CreatedAt != found[j].CreatedAt {
			return found[i].CreatedAt < found[j].CreatedAt
		}
		return found[i].PartitionKey < found[j].PartitionKey
	})
	return found[0], true, nil
}

func (m *Memory) Prune(_ context.Context, pk string, keep []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := KeepSet(keep)
	p := m.parts[pk]
	for sk := range p {
		if !set[sk] {
			delete(p, sk)
		}
	}
	if len(p) == 0 {
		delete(m.parts, pk)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Items returns every stored item ordered by partition and sort key.
func (m *Memory) Items() []mappers.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []mappers.Item
	for _, p := range m.parts {
		for _, it := range p {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PartitionKey != out[j].PartitionKey {
			return out[i].PartitionKey < out[j].PartitionKey
		}
		return out[i].SortKey < out[j].SortKey
	})
	return out
}

// Partition returns the items under pk ordered by sort key.
func (m *Memory) Partition(pk string) []mappers.Item {
	m.mu.RLock()
	p := m.parts[pk]
	out := make([]mappers.Item, 0, len(p))
	for _, it := range p {
		out = append(out, it)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].SortKey < out[j].SortKey })
	return out
}
