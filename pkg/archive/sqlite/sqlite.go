// Package sqlite provides a SQLite-backed archive driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/llmstxt/pkg/archive"
)

// Driver implements archive.Driver using SQLite.
type Driver struct {
	db *sql.DB
}

// NewDriver opens (or creates) the archive at dbPath.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewDriver(dbPath string) (*Driver, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	d := &Driver{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return d, nil
}

// migrate creates the necessary tables if they don't exist.
func (d *Driver) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		llms_txt TEXT NOT NULL,
		mode TEXT NOT NULL,
		pages_total INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generations_url_created ON generations(url, created_at);
	CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Put stores a record, replacing any record with the same id.
func (d *Driver) Put(ctx context.Context, rec *archive.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	query := `INSERT OR REPLACE INTO generations (id, url, llms_txt, mode, pages_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := d.db.ExecContext(ctx, query,
		rec.ID, rec.URL, rec.LlmsTxt, rec.Mode, rec.PagesTotal, rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

const selectColumns = `SELECT id, url, llms_txt, mode, pages_total, created_at FROM generations`

// Get retrieves a record by its id.
func (d *Driver) Get(ctx context.Context, id string) (*archive.Record, error) {
	row := d.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, archive.NotFoundError{Key: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return rec, nil
}

// Latest returns the newest record for url.
func (d *Driver) Latest(ctx context.Context, url string) (*archive.Record, error) {
	row := d.db.QueryRowContext(ctx,
		selectColumns+` WHERE url = ? ORDER BY created_at DESC, id DESC LIMIT 1`, url)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, archive.NotFoundError{Key: url}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return rec, nil
}

// List returns up to limit records, newest first.
func (d *Driver) List(ctx context.Context, limit int) ([]*archive.Record, error) {
	query := selectColumns + ` ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []*archive.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

// Close closes the database connection.
func (d *Driver) Close() error {
	return d.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*archive.Record, error) {
	var (
		rec     archive.Record
		created int64
	)
	if err := s.Scan(&rec.ID, &rec.URL, &rec.LlmsTxt, &rec.Mode, &rec.PagesTotal, &created); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	return &rec, nil
}
