/*
Package sqlite provides a SQLite-backed implementation of amortization.Store.

PURPOSE:
  Persists generated schedules so the API can serve, list and export them
  later. Schedule generation itself never touches the database; callers
  drain a Schedule into a ScheduleRecord and save that.

KEY TABLES:
  schedules:      One row per saved schedule (config as JSON)
  schedule_rows:  One row per period, amounts as decimal TEXT

AMOUNTS:
  Row amounts are written with decimal.NewFromFloat(v).String(), the
  shortest decimal that parses back to the same float64, so a round trip
  through the database is exact.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection, which also
  keeps ":memory:" databases alive across calls.

WAL MODE:
  Opened with WAL (Write-Ahead Logging) and foreign keys on, so deleting a
  schedule cascades to its rows.

USAGE:
  store, err := sqlite.New("./data/amortize.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - amortization/store.go: Interface definition
  - amortization/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/amortization-engine/amortization"
)

// Fixed width so created_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements amortization.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ amortization.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		config_json TEXT NOT NULL,
		payment TEXT NOT NULL,
		periods INTEGER NOT NULL,
		interest_mode INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_created_at
		ON schedules(created_at DESC);

	CREATE TABLE IF NOT EXISTS schedule_rows (
		schedule_id TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		period INTEGER NOT NULL,
		payment TEXT NOT NULL,
		interest TEXT NOT NULL,
		principal TEXT NOT NULL,
		balance TEXT NOT NULL,
		PRIMARY KEY (schedule_id, period)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

// Save writes the record and its rows in one transaction.
func (s *Store) Save(ctx context.Context, rec amortization.ScheduleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	configJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO schedules (id, label, config_json, payment, periods, interest_mode, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Label,
		string(configJSON),
		formatAmount(rec.Payment),
		rec.Config.Periods,
		int(rec.Config.InterestMode),
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if isPrimaryKeyError(err) {
			return amortization.ErrDuplicateSchedule
		}
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	stmt, err := sqlTx.PrepareContext(ctx, `
		INSERT INTO schedule_rows (schedule_id, period, payment, interest, principal, balance)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rec.Rows {
		_, err := stmt.ExecContext(ctx,
			rec.ID,
			row.Period,
			formatAmount(row.Payment),
			formatAmount(row.Interest),
			formatAmount(row.Principal),
			formatAmount(row.Balance),
		)
		if err != nil {
			return fmt.Errorf("failed to insert row %d: %w", row.Period, err)
		}
	}

	return sqlTx.Commit()
}

// Get loads a record with its rows in period order.
func (s *Store) Get(ctx context.Context, id string) (*amortization.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		"SELECT id, label, config_json, payment, created_at FROM schedules WHERE id = ?",
		id,
	))
	if err == sql.ErrNoRows {
		return nil, amortization.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT period, payment, interest, principal, balance
		FROM schedule_rows WHERE schedule_id = ? ORDER BY period
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r amortization.Row
		var payment, interest, principal, balance string
		if err := rows.Scan(&r.Period, &payment, &interest, &principal, &balance); err != nil {
			return nil, err
		}
		r.Payment = parseAmount(payment)
		r.Interest = parseAmount(interest)
		r.Principal = parseAmount(principal)
		r.Balance = parseAmount(balance)
		rec.Rows = append(rec.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns records newest first, without rows.
func (s *Store) List(ctx context.Context, limit int) ([]amortization.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, label, config_json, payment, created_at FROM schedules ORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []amortization.ScheduleRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Delete removes a record; its rows go with it.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return amortization.ErrScheduleNotFound
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*amortization.ScheduleRecord, error) {
	var rec amortization.ScheduleRecord
	var configJSON, payment, createdAt string
	if err := row.Scan(&rec.ID, &rec.Label, &configJSON, &payment, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(configJSON), &rec.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config of %s: %w", rec.ID, err)
	}
	rec.Payment = parseAmount(payment)
	rec.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &rec, nil
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func parseAmount(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func isPrimaryKeyError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
