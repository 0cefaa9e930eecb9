// Package store persists result tables as standalone SQLite files.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jfmyers9/scrobblemood/internal/dataset"
	_ "modernc.org/sqlite"
)

// Kind names what a persisted table holds.
type Kind string

const (
	KindScrobbles Kind = "scrobbles"
	KindFeatures  Kind = "features"
	KindMoods     Kind = "moods"
)

// formatVersion is bumped whenever the schema below changes.
const formatVersion = 1

// Snapshot is a table loaded back from disk.
type Snapshot struct {
	Kind    Kind
	SavedAt time.Time
	Table   *dataset.Table
}

const schema = `
	CREATE TABLE meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE columns (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE cells (
		row_idx INTEGER NOT NULL,
		col_name TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (row_idx, col_name)
	);
`

// open opens a database at path with the pragmas used for snapshot files.
func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA journal_mode = DELETE", // no -wal/-shm files next to the snapshot
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	return db, nil
}

// Save writes t to a new SQLite file at path. An existing file at path is
// replaced.
func Save(ctx context.Context, path string, kind Kind, t *dataset.Table) error {
	for _, p := range []string{path, path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove existing %s: %w", p, err)
		}
	}

	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		"format_version": strconv.Itoa(formatVersion),
		"kind":           string(kind),
		"row_count":      strconv.Itoa(t.Len()),
		"saved_at":       strconv.FormatInt(time.Now().Unix(), 10),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("failed to write meta %s: %w", k, err)
		}
	}

	for i, col := range t.Columns {
		if _, err := tx.ExecContext(ctx, "INSERT INTO columns (position, name) VALUES (?, ?)", i, col); err != nil {
			return fmt.Errorf("failed to write column %q: %w", col, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO cells (row_idx, col_name, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		for col, value := range row {
			if _, err := stmt.ExecContext(ctx, i, col, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Load reads a snapshot written by Save.
func Load(ctx context.Context, path string) (*Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	meta, err := readMeta(ctx, db)
	if err != nil {
		return nil, err
	}
	if meta["format_version"] != strconv.Itoa(formatVersion) {
		return nil, fmt.Errorf("unsupported snapshot format %q", meta["format_version"])
	}

	rowCount, err := strconv.Atoi(meta["row_count"])
	if err != nil {
		return nil, fmt.Errorf("invalid row_count %q: %w", meta["row_count"], err)
	}
	savedAt, err := strconv.ParseInt(meta["saved_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid saved_at %q: %w", meta["saved_at"], err)
	}

	columns, err := readColumns(ctx, db)
	if err != nil {
		return nil, err
	}

	t := dataset.New(columns...)
	t.Rows = make([]dataset.Row, rowCount)
	for i := range t.Rows {
		t.Rows[i] = dataset.Row{}
	}

	rows, err := db.QueryContext(ctx, "SELECT row_idx, col_name, value FROM cells")
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx        int
			col, value string
		)
		if err := rows.Scan(&idx, &col, &value); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		if idx < 0 || idx >= rowCount {
			return nil, fmt.Errorf("cell row %d out of range", idx)
		}
		t.Rows[idx][col] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cells: %w", err)
	}

	return &Snapshot{
		Kind:    Kind(meta["kind"]),
		SavedAt: time.Unix(savedAt, 0),
		Table:   t,
	}, nil
}

func readMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM meta")
	if err != nil {
		return nil, fmt.Errorf("failed to query meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan meta: %w", err)
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meta: %w", err)
	}
	return meta, nil
}

func readColumns(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM columns ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return columns, nil
}
