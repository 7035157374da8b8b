package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/workshopgen/internal/model"
)

// FileName is the name of the history database file.
const FileName = "workshopgen.db"

var (
	// ErrRunNotFound is returned when a run ID does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrNoCollection is returned when saving a run that has no extracted collection.
	ErrNoCollection = errors.New("run has no collection")
)

// HistoryDB records generation runs.
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

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// With CreateIfNotExists unset a missing database is an error.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	// Concurrent readers may meet the schema check of another process.
	dsn += "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		collection_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		page_hash TEXT,
		output_path TEXT,
		sink TEXT,
		item_count INTEGER NOT NULL DEFAULT 0,
		generated_at TEXT NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_collection ON runs(collection_id);

	-- Items keep their page position; duplicates are stored as separate rows.
	CREATE TABLE IF NOT EXISTS run_items (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored run.
type RunRecord struct {
	ID           int64          `json:"id"`
	CollectionID string         `json:"collection_id"`
	Title        string         `json:"title"`
	URL          string         `json:"url"`
	PageHash     string         `json:"page_hash"`
	OutputPath   string         `json:"output_path"`
	Sink         model.SinkKind `json:"sink"`
	ItemCount    int            `json:"item_count"`
	GeneratedAt  time.Time      `json:"generated_at"`

	// Items is only filled by GetRun and LatestRuns.
	Items []model.Item `json:"items,omitempty"`
}

// Collection rebuilds the collection stored with the record.
func (r *RunRecord) Collection() *model.Collection {
	c := model.NewCollection(r.CollectionID, r.Title, r.URL)
	for _, item := range r.Items {
		c.AddItem(item)
	}
	return c
}

// CollectionSummary aggregates the runs of one collection.
type CollectionSummary struct {
	CollectionID string    `json:"collection_id"`
	Title        string    `json:"title"`
	Runs         int       `json:"runs"`
	LastRun      time.Time `json:"last_run"`
}

// SaveRun stores run and its items, returning the new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *model.Run) (int64, error) {
	if run.Collection == nil {
		return 0, ErrNoCollection
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var hash string
	if run.Page != nil {
		hash = run.Page.Hash
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (collection_id, title, url, page_hash, output_path, sink, item_count, generated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CollectionID,
		run.Collection.Title,
		run.URL,
		hash,
		run.OutputPath,
		string(run.Sink),
		run.ItemCount(),
		run.GeneratedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_items (run_id, position, item_id, name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range run.Collection.Items {
		if _, err := stmt.ExecContext(ctx, id, i, item.ID, item.Name); err != nil {
			return 0, fmt.Errorf("failed to save item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, collection_id, title, url, page_hash, output_path, sink, item_count, generated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		r           RunRecord
		hash, path  sql.NullString
		sink        sql.NullString
		generatedAt string
	)
	if err := row.Scan(&r.ID, &r.CollectionID, &r.Title, &r.URL, &hash, &path, &sink, &r.ItemCount, &generatedAt); err != nil {
		return nil, err
	}
	r.PageHash = hash.String
	r.OutputPath = path.String
	r.Sink = model.SinkKind(sink.String)
	r.GeneratedAt = parseTimestamp(generatedAt)
	return &r, nil
}

// ListRuns returns the runs of collectionID, newest first, without items.
// An empty collectionID lists the runs of every collection.
func (hdb *HistoryDB) ListRuns(ctx context.Context, collectionID string) ([]*RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if collectionID != "" {
		query += ` WHERE collection_id = ?`
		args = append(args, collectionID)
	}
	query += ` ORDER BY id DESC`

	return hdb.queryRuns(ctx, query, args...)
}

// GetRun returns the run with the given ID including its items.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	row := hdb.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if err := hdb.loadItems(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// LatestRuns returns up to n runs of collectionID, newest first, with items.
func (hdb *HistoryDB) LatestRuns(ctx context.Context, collectionID string, n int) ([]*RunRecord, error) {
	runs, err := hdb.queryRuns(ctx,
		`SELECT `+runColumns+` FROM runs WHERE collection_id = ? ORDER BY id DESC LIMIT ?`,
		collectionID, n)
	if err != nil {
		return nil, err
	}
	for _, r := range runs {
		if err := hdb.loadItems(ctx, r); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// ListCollections returns one summary per recorded collection, most
// recently generated first. The title is the one of the latest run.
func (hdb *HistoryDB) ListCollections(ctx context.Context) ([]CollectionSummary, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT r.collection_id, r.title, c.runs, r.generated_at
	FROM runs r
	JOIN (
		SELECT collection_id, COUNT(*) AS runs, MAX(id) AS last_id
		FROM runs GROUP BY collection_id
	) c ON r.id = c.last_id
	ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var results []CollectionSummary
	for rows.Next() {
		var (
			s         CollectionSummary
			timestamp string
		)
		if err := rows.Scan(&s.CollectionID, &s.Title, &s.Runs, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		s.LastRun = parseTimestamp(timestamp)
		results = append(results, s)
	}
	return results, rows.Err()
}

func (hdb *HistoryDB) queryRuns(ctx context.Context, query string, args ...any) ([]*RunRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (hdb *HistoryDB) loadItems(ctx context.Context, r *RunRecord) error {
	rows, err := hdb.db.QueryContext(ctx,
		`SELECT item_id, name FROM run_items WHERE run_id = ? ORDER BY position`, r.ID)
	if err != nil {
		return fmt.Errorf("failed to load items of run %d: %w", r.ID, err)
	}
	defer rows.Close()

	r.Items = make([]model.Item, 0, r.ItemCount)
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		r.Items = append(r.Items, item)
	}
	return rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses s with the known formats, returning the zero time
// when none matches.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
