package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DefaultLimit bounds Recent when no limit is given.
const DefaultLimit = 20

// Run is one recorded fetch.
type Run struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	SubstanceID   string    `json:"substance_id"`
	SubstanceName string    `json:"substance_name,omitempty"`
	Variant       string    `json:"variant"`
	OutputPath    string    `json:"output_path"`
	Columns       int       `json:"columns"`
	Layout        string    `json:"layout,omitempty"`
	Recognized    bool      `json:"recognized"`
	Rows          int       `json:"rows"`
	DataURL       string    `json:"data_url,omitempty"`
}

type runRow struct {
	ID            string `db:"id"`
	StartedAt     string `db:"started_at"`
	SubstanceID   string `db:"substance_id"`
	SubstanceName string `db:"substance_name"`
	Variant       string `db:"variant"`
	OutputPath    string `db:"output_path"`
	Columns       int    `db:"column_count"`
	Layout        string `db:"layout"`
	Recognized    bool   `db:"recognized"`
	Rows          int    `db:"row_count"`
	DataURL       string `db:"data_url"`
}

func (r runRow) run() Run {
	started, _ := time.Parse(time.RFC3339Nano, r.StartedAt)
	return Run{
		ID:            r.ID,
		StartedAt:     started,
		SubstanceID:   r.SubstanceID,
		SubstanceName: r.SubstanceName,
		Variant:       r.Variant,
		OutputPath:    r.OutputPath,
		Columns:       r.Columns,
		Layout:        r.Layout,
		Recognized:    r.Recognized,
		Rows:          r.Rows,
		DataURL:       r.DataURL,
	}
}

// Store manages the ledger database.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open initializes or connects to the ledger at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts run, assigning an ID and start time when they are unset.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	row := runRow{
		ID:            run.ID,
		StartedAt:     run.StartedAt.UTC().Format(time.RFC3339Nano),
		SubstanceID:   run.SubstanceID,
		SubstanceName: run.SubstanceName,
		Variant:       run.Variant,
		OutputPath:    run.OutputPath,
		Columns:       run.Columns,
		Layout:        run.Layout,
		Recognized:    run.Recognized,
		Rows:          run.Rows,
		DataURL:       run.DataURL,
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO runs
		(id, started_at, substance_id, substance_name, variant, output_path, column_count, layout, recognized, row_count, data_url)
		VALUES (:id, :started_at, :substance_id, :substance_name, :variant, :output_path, :column_count, :layout, :recognized, :row_count, :data_url)`,
		row)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var rows []runRow
	err := s.db.SelectContext(ctx, &rows, `SELECT id, started_at, substance_id, substance_name, variant,
		output_path, column_count, layout, recognized, row_count, data_url
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs := make([]Run, 0, len(rows))
	for _, r := range rows {
		runs = append(runs, r.run())
	}
	return runs, nil
}

// Clear deletes every run and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return n, nil
}
