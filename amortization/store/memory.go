// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/amortization-engine/amortization"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[string]amortization.ScheduleRecord
	// order holds IDs sorted by CreatedAt, oldest first.
	order []string
}

var _ amortization.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]amortization.ScheduleRecord),
	}
}

// Save stores a copy of rec.
func (m *Memory) Save(_ context.Context, rec amortization.ScheduleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.ID]; exists {
		return amortization.ErrDuplicateSchedule
	}
	m.records[rec.ID] = cloneRecord(rec)

	// Binary search for insertion point keeps order sorted.
	i := sort.Search(len(m.order), func(i int) bool {
		return m.records[m.order[i]].CreatedAt.After(rec.CreatedAt)
	})
	m.order = append(m.order, "")
	copy(m.order[i+1:], m.order[i:])
	m.order[i] = rec.ID
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*amortization.ScheduleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, amortization.ErrScheduleNotFound
	}
	out := cloneRecord(rec)
	return &out, nil
}

// List returns records newest first, without rows.
func (m *Memory) List(_ context.Context, limit int) ([]amortization.ScheduleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]amortization.ScheduleRecord, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		rec := m.records[m.order[i]]
		rec.Rows = nil
		result = append(result, rec)
	}
	return result, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return amortization.ErrScheduleNotFound
	}
	delete(m.records, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func cloneRecord(rec amortization.ScheduleRecord) amortization.ScheduleRecord {
	rec.Rows = append([]amortization.Row(nil), rec.Rows...)
	if rec.Config.ActualPayment != nil {
		p := *rec.Config.ActualPayment
		rec.Config.ActualPayment = &p
	}
	return rec
}
