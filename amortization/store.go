/*
store.go - Persistence interface for generated schedules

PURPOSE:
  Schedule generation is pure; storing a schedule is a separate concern of
  the API and CLI layers. They drain a Schedule into a ScheduleRecord and
  hand it to a Store.

IMPLEMENTATIONS:
  - amortization/store/memory.go: In-memory for tests and dev
  - store/sqlite/sqlite.go: SQLite

CONTRACT:
  - Save rejects an existing ID with ErrDuplicateSchedule
  - Get and Delete return ErrScheduleNotFound for unknown IDs
  - List returns newest first, without rows
*/
package amortization

import (
	"context"
	"time"
)

// ScheduleRecord is a persisted schedule.
type ScheduleRecord struct {
	ID        string
	Label     string
	Config    Config
	Payment   float64
	Rows      []Row
	CreatedAt time.Time
}

// Summary aggregates the stored rows.
func (r ScheduleRecord) Summary() Summary {
	return Summarize(SliceRows(r.Rows))
}

// NewRecord drains sched into a record. The schedule is consumed.
func NewRecord(id, label string, sched *Schedule) ScheduleRecord {
	return ScheduleRecord{
		ID:        id,
		Label:     label,
		Config:    sched.Config(),
		Payment:   sched.Payment(),
		Rows:      Collect(sched),
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists schedule records.
type Store interface {
	Save(ctx context.Context, rec ScheduleRecord) error
	Get(ctx context.Context, id string) (*ScheduleRecord, error)
	// List returns at most limit records; limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]ScheduleRecord, error)
	Delete(ctx context.Context, id string) error
}
