package run

import (
	"context"
	"sync"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

// DefaultMemoryCapacity bounds the runs kept by a Memory store.
const DefaultMemoryCapacity = 100

// Memory keeps runs in process, evicting the oldest once capacity is reached.
// Used when no database is configured.
type Memory struct {
	mu       sync.Mutex
	capacity int
	runs     map[string]domrank.RankedList
	order    []string
}

// NewMemory creates an in-memory run store. capacity <= 0 uses DefaultMemoryCapacity.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &Memory{capacity: capacity, runs: make(map[string]domrank.RankedList, capacity)}
}

// Save stores the list under its run id.
func (m *Memory) Save(_ context.Context, list domrank.RankedList) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := list.RunID()
	if _, ok := m.runs[id]; !ok {
		m.order = append(m.order, id)
	}
	m.runs[id] = list
	for len(m.order) > m.capacity {
		delete(m.runs, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

// Get loads a run by id.
func (m *Memory) Get(_ context.Context, runID string) (domrank.RankedList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.runs[runID]
	if !ok {
		return domrank.RankedList{}, domain.ErrRunNotFound
	}
	return list, nil
}

// Delete removes a run.
func (m *Memory) Delete(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[runID]; !ok {
		return nil
	}
	delete(m.runs, runID)
	for i, id := range m.order {
		if id == runID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports how many runs are held.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}
