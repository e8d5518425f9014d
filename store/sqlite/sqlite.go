/*
Package sqlite provides SQLite-backed persistence for the payment schedule
service.

PURPOSE:
  The resolver itself is pure computation; what needs to survive restarts is
  the operational state around it:
  - holiday overrides: closure days layered on top of the statutory calendar
  - schedule snapshots: generated table 109/107 months, frozen at publish time
  - evaluation runs: accuracy summaries kept for trend comparison

KEY TABLES:
  holiday_overrides: One row per override date, unique on the date
  schedule_entries:  One row per (table, year, month, run day)
  evaluation_runs:   One row per harness run, bucket counts denormalized

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/schedules.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - calendar/source.go: Overlay consumes the overrides loaded here
  - api/handlers.go: HTTP surface over this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/WSIB-Innovation/payment-schedules/calendar"
	"github.com/WSIB-Innovation/payment-schedules/schedule"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// Store provides SQLite-backed persistence.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Holiday overrides (office closures layered over the statutory calendar)
	CREATE TABLE IF NOT EXISTS holiday_overrides (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_overrides_date
		ON holiday_overrides(date);

	-- Published schedule snapshots
	CREATE TABLE IF NOT EXISTS schedule_entries (
		table_code TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		run_day INTEGER NOT NULL,
		payment_date TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		PRIMARY KEY (table_code, year, month, run_day)
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_table_year
		ON schedule_entries(table_code, year);

	-- Evaluation harness results
	CREATE TABLE IF NOT EXISTS evaluation_runs (
		id TEXT PRIMARY KEY,
		table_code TEXT NOT NULL,
		total INTEGER NOT NULL,
		exact INTEGER NOT NULL,
		within_one INTEGER NOT NULL,
		within_two INTEGER NOT NULL,
		major INTEGER NOT NULL,
		accuracy TEXT NOT NULL,
		mean_abs_diff REAL NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_table
		ON evaluation_runs(table_code, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY OVERRIDES
// =============================================================================

// Override is a stored closure date applied on top of the statutory calendar.
type Override struct {
	ID        string
	Date      calendar.Date
	Name      string
	CreatedAt time.Time
}

// SaveOverride inserts or replaces an override; the date is the natural key.
func (s *Store) SaveOverride(ctx context.Context, o Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holiday_overrides (id, date, name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET name = excluded.name`,
		o.ID, o.Date.String(), o.Name, o.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}
	return nil
}

// ListOverrides returns all overrides ordered by date.
func (s *Store) ListOverrides(ctx context.Context) ([]Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, created_at
		FROM holiday_overrides
		ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer rows.Close()

	var overrides []Override
	for rows.Next() {
		var o Override
		var dateStr, createdStr string
		if err := rows.Scan(&o.ID, &dateStr, &o.Name, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		o.Date, err = calendar.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt override date %q: %w", dateStr, err)
		}
		o.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// DeleteOverride removes an override by id.
func (s *Store) DeleteOverride(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM holiday_overrides WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// OverrideHolidays converts the stored overrides into calendar holidays,
// ready to layer into an Overlay source.
func (s *Store) OverrideHolidays(ctx context.Context) ([]calendar.Holiday, error) {
	overrides, err := s.ListOverrides(ctx)
	if err != nil {
		return nil, err
	}
	holidays := make([]calendar.Holiday, 0, len(overrides))
	for _, o := range overrides {
		holidays = append(holidays, calendar.Holiday{Date: o.Date, Name: o.Name})
	}
	return holidays, nil
}

// =============================================================================
// SCHEDULE SNAPSHOTS
// =============================================================================

// SaveSchedule stores a generated year, replacing any previous snapshot for
// the same table and year.
func (s *Store) SaveSchedule(ctx context.Context, table schedule.TableCode, year int, months []schedule.MonthSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM schedule_entries WHERE table_code = ? AND year = ?`,
		string(table), year); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedule_entries (table_code, year, month, run_day, payment_date, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range months {
		for _, e := range m.Entries {
			if _, err := stmt.ExecContext(ctx,
				string(table), year, int(m.Month), e.RunDay, e.Payment.String(), now); err != nil {
				return fmt.Errorf("failed to insert entry %s run day %d: %w", m.Month, e.RunDay, err)
			}
		}
	}
	return tx.Commit()
}

// GetSchedule loads a stored snapshot for a table and year. Returns
// ErrNotFound when no snapshot exists.
func (s *Store) GetSchedule(ctx context.Context, table schedule.TableCode, year int) ([]schedule.MonthSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT month, run_day, payment_date
		FROM schedule_entries
		WHERE table_code = ? AND year = ?
		ORDER BY month, run_day`,
		string(table), year)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer rows.Close()

	byMonth := make(map[time.Month][]schedule.Entry)
	for rows.Next() {
		var month, runDay int
		var paymentStr string
		if err := rows.Scan(&month, &runDay, &paymentStr); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		payment, err := calendar.ParseDate(paymentStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt payment date %q: %w", paymentStr, err)
		}
		byMonth[time.Month(month)] = append(byMonth[time.Month(month)], schedule.Entry{
			RunDay:  runDay,
			Payment: payment,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(byMonth) == 0 {
		return nil, ErrNotFound
	}

	months := make([]schedule.MonthSchedule, 0, len(byMonth))
	for m := time.January; m <= time.December; m++ {
		entries, ok := byMonth[m]
		if !ok {
			continue
		}
		months = append(months, schedule.MonthSchedule{
			Year:    year,
			Month:   m,
			Table:   table,
			Entries: entries,
		})
	}
	return months, nil
}

// =============================================================================
// EVALUATION RUNS
// =============================================================================

// EvaluationRecord is one persisted harness summary.
type EvaluationRecord struct {
	ID          string
	Table       schedule.TableCode
	Total       int
	Exact       int
	WithinOne   int
	WithinTwo   int
	Major       int
	Accuracy    decimal.Decimal
	MeanAbsDiff float64
	CreatedAt   time.Time
}

// SaveEvaluation persists one harness summary.
func (s *Store) SaveEvaluation(ctx context.Context, rec EvaluationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluation_runs
			(id, table_code, total, exact, within_one, within_two, major, accuracy, mean_abs_diff, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Table), rec.Total, rec.Exact, rec.WithinOne, rec.WithinTwo,
		rec.Major, rec.Accuracy.String(), rec.MeanAbsDiff,
		rec.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}
	return nil
}

// ListEvaluations returns stored summaries, newest first.
func (s *Store) ListEvaluations(ctx context.Context) ([]EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, table_code, total, exact, within_one, within_two, major, accuracy, mean_abs_diff, created_at
		FROM evaluation_runs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var records []EvaluationRecord
	for rows.Next() {
		var rec EvaluationRecord
		var tableStr, accuracyStr, createdStr string
		if err := rows.Scan(&rec.ID, &tableStr, &rec.Total, &rec.Exact, &rec.WithinOne,
			&rec.WithinTwo, &rec.Major, &accuracyStr, &rec.MeanAbsDiff, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		rec.Table = schedule.TableCode(tableStr)
		rec.Accuracy, err = decimal.NewFromString(accuracyStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt accuracy %q: %w", accuracyStr, err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears all tables. Dev use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"holiday_overrides", "schedule_entries", "evaluation_runs"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
