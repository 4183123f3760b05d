package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/webcrawler/internal/model"
)

// FileName is the name of the database file inside the history directory.
const FileName = "history.db"

// storedTimeFormat is a fixed-width RFC 3339 layout, so that started_at
// sorts chronologically as text.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned by GetRun when no run has the given ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores finished crawl runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so that a history listing does
	// not block a crawl that is saving its run.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return h, nil
}

// Path returns the path of the database file.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		implementation TEXT NOT NULL,
		start_pages TEXT NOT NULL,
		urls_visited INTEGER NOT NULL,
		word_counts TEXT NOT NULL,
		profile TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON crawl_runs(started_at);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Run is one recorded crawl.
type Run struct {
	// ID is assigned by SaveRun.
	ID int64

	// StartedAt is when the crawl began.
	StartedAt time.Time

	// Duration is the wall time of the crawl.
	Duration time.Duration

	// Implementation is the crawler that ran ("parallel" or "sequential").
	Implementation string

	// StartPages are the seed URLs.
	StartPages []string

	// Result is the crawl result.
	Result *model.CrawlResult

	// Profile is the profiling report text.
	Profile string
}

// SaveRun records run and returns its ID.
func (h *HistoryDB) SaveRun(ctx context.Context, run *Run) (int64, error) {
	startPages, err := json.Marshal(run.StartPages)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize start pages: %w", err)
	}

	result := run.Result
	if result == nil {
		result = model.NewCrawlResult(nil, 0)
	}
	wordCounts, err := json.Marshal(result.WordCounts)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize word counts: %w", err)
	}

	query := `
	INSERT INTO crawl_runs (started_at, duration_ms, implementation, start_pages, urls_visited, word_counts, profile)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := h.db.ExecContext(ctx, query,
		run.StartedAt.UTC().Format(storedTimeFormat),
		run.Duration.Milliseconds(),
		run.Implementation,
		string(startPages),
		result.URLsVisited,
		string(wordCounts),
		run.Profile,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	run.ID = id
	return id, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
	SELECT id, started_at, duration_ms, implementation, start_pages, urls_visited, word_counts, profile
	FROM crawl_runs
	ORDER BY started_at DESC, id DESC
	LIMIT ?
	`
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := h.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*Run, error) {
	query := `
	SELECT id, started_at, duration_ms, implementation, start_pages, urls_visited, word_counts, profile
	FROM crawl_runs
	WHERE id = ?
	`

	run, err := scanRun(h.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return run, err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run         Run
		startedAt   string
		durationMS  int64
		startPages  string
		urlsVisited int
		wordCounts  string
		profile     sql.NullString
	)

	if err := row.Scan(&run.ID, &startedAt, &durationMS, &run.Implementation,
		&startPages, &urlsVisited, &wordCounts, &profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt = parseTimestamp(startedAt)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.Profile = profile.String

	if err := json.Unmarshal([]byte(startPages), &run.StartPages); err != nil {
		return nil, fmt.Errorf("failed to parse start pages of run %d: %w", run.ID, err)
	}

	var counts model.WordCounts
	if err := json.Unmarshal([]byte(wordCounts), &counts); err != nil {
		return nil, fmt.Errorf("failed to parse word counts of run %d: %w", run.ID, err)
	}
	run.Result = model.NewCrawlResult(counts, urlsVisited)

	return &run, nil
}

// timestampFormats are the layouts accepted when reading started_at.
// Rows written by SaveRun use RFC 3339; the SQLite layout covers rows
// inserted by hand with CURRENT_TIMESTAMP.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
