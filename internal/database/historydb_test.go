package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/workshopgen/internal/model"
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

func newTestRun(collectionID, title string, generatedAt time.Time, items ...model.Item) *model.Run {
	run := model.NewRun(collectionID, "https://example.com/?id=", "workshop.lua")
	run.Page = &model.Page{URL: run.URL, StatusCode: 200}
	run.Page.ComputeHash([]byte(title))
	run.Collection = model.NewCollection(collectionID, title, run.URL)
	for _, item := range items {
		run.Collection.AddItem(item)
	}
	run.Sink = model.SinkFile
	run.GeneratedAt = generatedAt
	return run
}

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

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := db.SaveRun(context.Background(), newTestRun("1", "T", time.Now())); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), "1")
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run, got %d", len(runs))
		}
	})
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)
	generatedAt := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	items := []model.Item{
		{ID: "111", Name: "Foo"},
		{ID: "222", Name: "Bar"},
		{ID: "111", Name: "Foo"},
	}
	run := newTestRun("42", "Pack", generatedAt, items...)

	id, err := db.SaveRun(ctx, run)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	got, err := db.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	want := &RunRecord{
		ID:           id,
		CollectionID: "42",
		Title:        "Pack",
		URL:          "https://example.com/?id=42",
		PageHash:     run.Page.Hash,
		OutputPath:   "workshop.lua",
		Sink:         model.SinkFile,
		ItemCount:    3,
		GeneratedAt:  generatedAt,
		Items:        items,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("run mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(run.Collection, got.Collection()); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRunErrors(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	t.Run("run without collection is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := db.SaveRun(context.Background(), model.NewRun("1", "", "x"))
		if !errors.Is(err, ErrNoCollection) {
			t.Errorf("expected ErrNoCollection, got %v", err)
		}
	})

	t.Run("unknown run id", func(t *testing.T) {
		t.Parallel()

		_, err := db.GetRun(context.Background(), 9999)
		if !errors.Is(err, ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("empty collection is stored", func(t *testing.T) {
		t.Parallel()

		id, err := db.SaveRun(context.Background(), newTestRun("empty", "Empty", time.Now()))
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		got, err := db.GetRun(context.Background(), id)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if len(got.Items) != 0 || got.ItemCount != 0 {
			t.Errorf("expected no items, got %v", got.Items)
		}
	})
}

func TestHistoryQueries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := setupTestDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	saves := []*model.Run{
		newTestRun("A", "Alpha", base, model.Item{ID: "1", Name: "one"}),
		newTestRun("B", "Beta", base.Add(time.Hour), model.Item{ID: "9", Name: "nine"}),
		newTestRun("A", "Alpha v2", base.Add(2*time.Hour), model.Item{ID: "1", Name: "one"}, model.Item{ID: "2", Name: "two"}),
	}
	for _, r := range saves {
		if _, err := db.SaveRun(ctx, r); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	t.Run("ListRuns filters and orders newest first", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "A")
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].Title != "Alpha v2" || runs[1].Title != "Alpha" {
			t.Errorf("unexpected order: %s, %s", runs[0].Title, runs[1].Title)
		}
		if runs[0].Items != nil {
			t.Error("ListRuns should not load items")
		}
	})

	t.Run("ListRuns without filter returns everything", func(t *testing.T) {
		t.Parallel()

		runs, err := db.ListRuns(ctx, "")
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Errorf("expected 3 runs, got %d", len(runs))
		}
	})

	t.Run("LatestRuns loads items", func(t *testing.T) {
		t.Parallel()

		runs, err := db.LatestRuns(ctx, "A", 2)
		if err != nil {
			t.Fatalf("failed to get latest runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if len(runs[0].Items) != 2 || len(runs[1].Items) != 1 {
			t.Errorf("unexpected items: %v / %v", runs[0].Items, runs[1].Items)
		}

		diff := model.DiffCollections(runs[1].Collection(), runs[0].Collection())
		if len(diff.Added) != 1 || diff.Added[0].ID != "2" {
			t.Errorf("expected item 2 added, got %+v", diff)
		}
	})

	t.Run("ListCollections summarizes per collection", func(t *testing.T) {
		t.Parallel()

		got, err := db.ListCollections(ctx)
		if err != nil {
			t.Fatalf("failed to list collections: %v", err)
		}
		want := []CollectionSummary{
			{CollectionID: "A", Title: "Alpha v2", Runs: 2, LastRun: base.Add(2 * time.Hour)},
			{CollectionID: "B", Title: "Beta", Runs: 1, LastRun: base.Add(time.Hour)},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("collections mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2024-01-02T03:04:05Z", want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "2024-01-02 03:04:05", want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "garbage", want: time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.in); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
