package manifest

import (
	"context"
	"database/sql"
	"fmt"
)

// SetupSchema creates the manifest table if it does not exist.
func SetupSchema(db *sql.DB) error {
	const schemaManifest = `
CREATE TABLE IF NOT EXISTS publish_manifest (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    publish_date TEXT NOT NULL,
    puzzle_id TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL
);
`
	if _, err := db.Exec(schemaManifest); err != nil {
		return fmt.Errorf("failed to create manifest schema: %w", err)
	}
	return nil
}

// SQLStore keeps the manifest in a SQLite table. Uniqueness of slug and puzzle id is
// also enforced by the schema, and Save only ever inserts.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a store over db. SetupSchema must have been run.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Load reads every entry in insertion order.
func (s *SQLStore) Load() (*Manifest, error) {
	rows, err := s.db.Query("SELECT slug, publish_date, puzzle_id, title FROM publish_manifest ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query manifest: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err = rows.Scan(&e.Slug, &e.Date, &e.ID, &e.Title); err != nil {
			return nil, fmt.Errorf("failed to scan manifest row: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return New(entries), nil
}

// Save inserts the entries that are not stored yet, in a single transaction.
func (s *SQLStore) Save(m *Manifest) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO publish_manifest (slug, publish_date, puzzle_id, title)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(puzzle_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare manifest insert: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmt)

	for _, e := range m.Entries() {
		if _, err = stmt.ExecContext(ctx, e.Slug, e.Date, e.ID, e.Title); err != nil {
			return fmt.Errorf("failed to store manifest entry %s: %w", e.Slug, err)
		}
	}
	return tx.Commit()
}
