package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/linklint/internal/model"
)

// openTestDB opens a fresh database in a temporary directory.
func openTestDB(t *testing.T) *RunDB {
	t.Helper()

	rdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	return rdb
}

// testResult builds a finished run with the given broken URLs plus one
// valid and one warning record.
func testResult(root string, brokenURLs ...string) *model.RunResult {
	result := model.NewRunResult(root, "")
	result.FilesScanned = 3

	result.Append(model.LinkRecord{
		URL:        "/about.html",
		SourceFile: "index.html",
		Kind:       model.KindAnchor,
		Status:     model.StatusValid,
		StatusCode: 200,
	})
	for _, url := range brokenURLs {
		result.Append(model.LinkRecord{
			URL:        url,
			SourceFile: "index.html",
			Kind:       model.KindImage,
			Status:     model.StatusBroken,
			StatusCode: 404,
			Error:      "File not found",
		})
	}
	result.Append(model.LinkRecord{
		URL:        "https://slow.example.com/",
		SourceFile: "index.html",
		Kind:       model.KindAnchor,
		Status:     model.StatusWarning,
		Error:      "Request timeout",
	})
	result.AddFileError("bad.html", errors.New("parse failed"))
	result.FinishedAt = time.Now().UTC()

	return result
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database when CreateIfNotExists is set", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "db")
		rdb, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer func() { _ = rdb.Close() }()
	})

	t.Run("fails for missing database without CreateIfNotExists", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Fatal("Open() should fail when the database does not exist")
		}
	})
}

func TestRunDBSaveAndList(t *testing.T) {
	t.Parallel()

	t.Run("saves a run and lists its metadata", func(t *testing.T) {
		t.Parallel()

		rdb := openTestDB(t)
		ctx := context.Background()

		runID, err := rdb.SaveRun(ctx, testResult("/site/public", "/missing.png"))
		if err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
		if runID <= 0 {
			t.Errorf("SaveRun() id = %d, want > 0", runID)
		}

		runs, err := rdb.ListRuns(ctx, "", 0)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("len(runs) = %d, want 1", len(runs))
		}

		meta := runs[0]
		if meta.Root != "/site/public" {
			t.Errorf("Root = %q, want %q", meta.Root, "/site/public")
		}
		if meta.Total != 3 || meta.Valid != 1 || meta.Broken != 1 || meta.Warnings != 1 {
			t.Errorf("counters = %d/%d/%d/%d, want 3/1/1/1",
				meta.Total, meta.Valid, meta.Broken, meta.Warnings)
		}
		if meta.FileErrors != 1 {
			t.Errorf("FileErrors = %d, want 1", meta.FileErrors)
		}
		if meta.SuccessRate != "33.33%" {
			t.Errorf("SuccessRate = %q, want %q", meta.SuccessRate, "33.33%")
		}
		if meta.FinishedAt.IsZero() {
			t.Error("FinishedAt should be parsed")
		}
	})

	t.Run("filters by root and honors limit", func(t *testing.T) {
		t.Parallel()

		rdb := openTestDB(t)
		ctx := context.Background()

		for _, root := range []string{"/site/a", "/site/a", "/site/b"} {
			if _, err := rdb.SaveRun(ctx, testResult(root)); err != nil {
				t.Fatalf("SaveRun() error = %v", err)
			}
		}

		runs, err := rdb.ListRuns(ctx, "/site/a", 0)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("len(runs) = %d, want 2", len(runs))
		}

		runs, err = rdb.ListRuns(ctx, "", 1)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("len(runs) = %d, want 1", len(runs))
		}
	})

	t.Run("lists newest run first", func(t *testing.T) {
		t.Parallel()

		rdb := openTestDB(t)
		ctx := context.Background()

		older := testResult("/site/public")
		older.FinishedAt = time.Now().UTC().Add(-time.Hour)
		if _, err := rdb.SaveRun(ctx, older); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}

		newer := testResult("/site/public")
		newerID, err := rdb.SaveRun(ctx, newer)
		if err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}

		runs, err := rdb.ListRuns(ctx, "", 0)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("len(runs) = %d, want 2", len(runs))
		}
		if runs[0].ID != newerID {
			t.Errorf("runs[0].ID = %d, want %d", runs[0].ID, newerID)
		}
	})
}

func TestRunDBGetRun(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the full run result", func(t *testing.T) {
		t.Parallel()

		rdb := openTestDB(t)
		ctx := context.Background()

		runID, err := rdb.SaveRun(ctx, testResult("/site/public", "/missing.png"))
		if err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}

		got, err := rdb.GetRun(ctx, runID)
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if got == nil {
			t.Fatal("GetRun() returned nil for a stored run")
		}
		if got.Total != 3 {
			t.Errorf("Total = %d, want 3", got.Total)
		}
		if len(got.Links) != 3 {
			t.Errorf("len(Links) = %d, want 3", len(got.Links))
		}
		if len(got.FileErrors) != 1 {
			t.Errorf("len(FileErrors) = %d, want 1", len(got.FileErrors))
		}
	})

	t.Run("returns nil for unknown id", func(t *testing.T) {
		t.Parallel()

		rdb := openTestDB(t)

		got, err := rdb.GetRun(context.Background(), 9999)
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if got != nil {
			t.Error("GetRun() should return nil for an unknown id")
		}
	})
}

func TestRunDBBrokenLinksForRun(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	runID, err := rdb.SaveRun(ctx, testResult("/site/public", "/a.png", "/b.png"))
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	records, err := rdb.BrokenLinksForRun(ctx, runID)
	if err != nil {
		t.Fatalf("BrokenLinksForRun() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].URL != "/a.png" || records[1].URL != "/b.png" {
		t.Errorf("records out of order: %q, %q", records[0].URL, records[1].URL)
	}
	if records[0].Status != model.StatusBroken {
		t.Errorf("Status = %v, want %v", records[0].Status, model.StatusBroken)
	}
	if records[0].Error != "File not found" {
		t.Errorf("Error = %q, want %q", records[0].Error, "File not found")
	}
}

func TestRunDBDiffRuns(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	olderID, err := rdb.SaveRun(ctx, testResult("/site/public", "/gone.png", "/still.png"))
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	newerID, err := rdb.SaveRun(ctx, testResult("/site/public", "/still.png", "/new.png"))
	if err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	diff, err := rdb.DiffRuns(ctx, olderID, newerID)
	if err != nil {
		t.Fatalf("DiffRuns() error = %v", err)
	}

	if len(diff.Introduced) != 1 || diff.Introduced[0].URL != "/new.png" {
		t.Errorf("Introduced = %+v, want one record for /new.png", diff.Introduced)
	}
	if len(diff.Fixed) != 1 || diff.Fixed[0].URL != "/gone.png" {
		t.Errorf("Fixed = %+v, want one record for /gone.png", diff.Fixed)
	}
}
