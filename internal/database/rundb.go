package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/linklint/internal/model"
)

// RunDB provides SQLite-based storage for link check run history.
// It manages connection pooling and provides methods for saving and
// querying past runs.
//
// Design decision: We use a single database file for all sites rather
// than one file per site root. This lets the history command compare
// runs across roots and keeps backup/restore a one-file operation.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "linklint.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store one row per completed link check
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		finished_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		total INTEGER NOT NULL,
		valid INTEGER NOT NULL,
		broken INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		files_scanned INTEGER NOT NULL,
		file_errors INTEGER NOT NULL DEFAULT 0,
		success_rate TEXT NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);
	CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at);

	-- Broken links are denormalized per run so history diffs never
	-- deserialize full snapshots
	CREATE TABLE IF NOT EXISTS broken_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		source_file TEXT NOT NULL,
		kind TEXT NOT NULL,
		status_code INTEGER,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_broken_run ON broken_links(run_id);
	CREATE INDEX IF NOT EXISTS idx_broken_url ON broken_links(url);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a completed run with its broken link rows.
// Returns the database ID of the new run.
func (rdb *RunDB) SaveRun(ctx context.Context, result *model.RunResult) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run result: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (root, finished_at, total, valid, broken, warnings, files_scanned, file_errors, success_rate, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.Root,
		result.FinishedAt.UTC().Format("2006-01-02 15:04:05"),
		result.Total,
		result.Valid,
		result.Broken,
		result.Warnings,
		result.FilesScanned,
		len(result.FileErrors),
		result.SuccessRate(),
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, rec := range result.BrokenLinks() {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO broken_links (run_id, url, source_file, kind, status_code, error)
		VALUES (?, ?, ?, ?, ?, ?)
		`,
			runID,
			rec.URL,
			rec.SourceFile,
			string(rec.Kind),
			rec.StatusCode,
			rec.Error,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert broken link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading the full
// snapshot.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Root is the site output directory that was crawled.
	Root string

	// FinishedAt is when the run completed.
	FinishedAt time.Time

	// Total, Valid, Broken, Warnings mirror the run counters.
	Total    int
	Valid    int
	Broken   int
	Warnings int

	// FilesScanned is the number of HTML documents processed.
	FilesScanned int

	// FileErrors is the number of documents that failed to parse.
	FileErrors int

	// SuccessRate is the pre-rendered percentage ("75.00%" or "N/A").
	SuccessRate string
}

// ListRuns returns run metadata, newest first.
// When root is non-empty only runs for that root are returned.
// A limit of zero or less returns all matching runs.
func (rdb *RunDB) ListRuns(ctx context.Context, root string, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, root, finished_at, total, valid, broken, warnings, files_scanned, file_errors, success_rate
	FROM runs
	WHERE 1=1
	`
	args := make([]interface{}, 0)

	if root != "" {
		query += " AND root = ?"
		args = append(args, root)
	}

	query += " ORDER BY finished_at DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var finishedAt string

		err := rows.Scan(
			&meta.ID,
			&meta.Root,
			&finishedAt,
			&meta.Total,
			&meta.Valid,
			&meta.Broken,
			&meta.Warnings,
			&meta.FilesScanned,
			&meta.FileErrors,
			&meta.SuccessRate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.FinishedAt = parseTimestamp(finishedAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRun retrieves a stored run result by its database ID.
// Returns nil without error when no run has that ID.
func (rdb *RunDB) GetRun(ctx context.Context, id int64) (*model.RunResult, error) {
	query := `
	SELECT result_json FROM runs
	WHERE id = ?
	`

	var resultJSON string
	err := rdb.db.QueryRowContext(ctx, query, id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var result model.RunResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse run result: %w", err)
	}

	return &result, nil
}

// BrokenLinksForRun returns the broken link rows of a run in insert
// order, which matches the run's encounter order.
func (rdb *RunDB) BrokenLinksForRun(ctx context.Context, runID int64) ([]model.LinkRecord, error) {
	query := `
	SELECT url, source_file, kind, status_code, error
	FROM broken_links
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := rdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query broken links: %w", err)
	}
	defer rows.Close()

	var records []model.LinkRecord
	for rows.Next() {
		var rec model.LinkRecord
		var kind string

		if err := rows.Scan(&rec.URL, &rec.SourceFile, &kind, &rec.StatusCode, &rec.Error); err != nil {
			return nil, fmt.Errorf("failed to scan broken link: %w", err)
		}

		rec.Kind = model.LinkKind(kind)
		rec.Status = model.StatusBroken
		records = append(records, rec)
	}

	return records, rows.Err()
}

// RunDiff compares the broken links of two runs.
type RunDiff struct {
	// Introduced lists URLs broken in the newer run but not the older.
	Introduced []model.LinkRecord

	// Fixed lists URLs broken in the older run but not the newer.
	Fixed []model.LinkRecord
}

// DiffRuns compares the broken links of two stored runs by URL.
// olderID and newerID name the runs to compare; records keep the
// encounter order of the run they come from.
func (rdb *RunDB) DiffRuns(ctx context.Context, olderID, newerID int64) (*RunDiff, error) {
	older, err := rdb.BrokenLinksForRun(ctx, olderID)
	if err != nil {
		return nil, err
	}
	newer, err := rdb.BrokenLinksForRun(ctx, newerID)
	if err != nil {
		return nil, err
	}

	olderURLs := make(map[string]struct{}, len(older))
	for _, rec := range older {
		olderURLs[rec.URL] = struct{}{}
	}
	newerURLs := make(map[string]struct{}, len(newer))
	for _, rec := range newer {
		newerURLs[rec.URL] = struct{}{}
	}

	diff := &RunDiff{}
	for _, rec := range newer {
		if _, ok := olderURLs[rec.URL]; !ok {
			diff.Introduced = append(diff.Introduced, rec)
		}
	}
	for _, rec := range older {
		if _, ok := newerURLs[rec.URL]; !ok {
			diff.Fixed = append(diff.Fixed, rec)
		}
	}

	return diff, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
