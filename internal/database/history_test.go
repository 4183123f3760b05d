package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/webcrawler/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = db.Close()
	})
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists {
		t.Error("expected CreateIfNotExists to be true")
	}
	if !opts.EnableWAL {
		t.Error("expected EnableWAL to be true")
	}
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	started := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)
	run := &Run{
		StartedAt:      started,
		Duration:       1500 * time.Millisecond,
		Implementation: "parallel",
		StartPages:     []string{"https://example.com/", "https://example.org/"},
		Result: model.NewCrawlResult(model.WordCounts{
			{Word: "zebra", Count: 5},
			{Word: "apple", Count: 2},
		}, 7),
		Profile: "Run at Tue, 05 Mar 2024 10:30:00 UTC\n",
	}

	id, err := db.SaveRun(ctx, run)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if id == 0 || run.ID != id {
		t.Errorf("expected run ID to be set, got %d / %d", id, run.ID)
	}

	got, err := db.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if !got.StartedAt.Equal(started) {
		t.Errorf("expected started %v, got %v", started, got.StartedAt)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", got.Duration)
	}
	if got.Implementation != "parallel" {
		t.Errorf("unexpected implementation %q", got.Implementation)
	}
	if !slices.Equal(got.StartPages, run.StartPages) {
		t.Errorf("unexpected start pages %v", got.StartPages)
	}
	if got.Result.URLsVisited != 7 {
		t.Errorf("expected 7 URLs visited, got %d", got.Result.URLsVisited)
	}
	// Rank order must survive the round trip.
	if !slices.Equal(got.Result.WordCounts, run.Result.WordCounts) {
		t.Errorf("expected %v, got %v", run.Result.WordCounts, got.Result.WordCounts)
	}
	if got.Profile != run.Profile {
		t.Errorf("unexpected profile %q", got.Profile)
	}
}

func TestSaveRunNilResult(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	id, err := db.SaveRun(context.Background(), &Run{StartedAt: time.Now(), Implementation: "sequential"})
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	got, err := db.GetRun(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if got.Result.URLsVisited != 0 || len(got.Result.WordCounts) != 0 {
		t.Errorf("expected empty result, got %+v", got.Result)
	}
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	_, err := db.GetRun(context.Background(), 42)
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	// Out of order, with a sub-second offset that must still sort correctly.
	offsets := []time.Duration{2 * time.Hour, 0, time.Hour + 500*time.Millisecond, time.Hour}
	for i, off := range offsets {
		_, err := db.SaveRun(ctx, &Run{
			StartedAt:      base.Add(off),
			Implementation: "parallel",
			StartPages:     []string{"https://example.com/"},
			Result:         model.NewCrawlResult(nil, i),
		})
		if err != nil {
			t.Fatalf("failed to save run %d: %v", i, err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 4 {
			t.Fatalf("expected 4 runs, got %d", len(runs))
		}
		want := []time.Time{base.Add(2 * time.Hour), base.Add(time.Hour + 500*time.Millisecond), base.Add(time.Hour), base}
		for i, run := range runs {
			if !run.StartedAt.Equal(want[i]) {
				t.Errorf("run %d: expected %v, got %v", i, want[i], run.StartedAt)
			}
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})

	t.Run("empty database", func(t *testing.T) {
		t.Parallel()

		runs, err := setupTestDB(t).ListRuns(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if runs == nil || len(runs) != 0 {
			t.Errorf("expected empty non-nil list, got %v", runs)
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	if got := parseTimestamp("2024-01-02 03:04:05"); !got.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected SQLite timestamp %v", got)
	}
	if got := parseTimestamp("garbage"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}
