package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS labels (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    size_key   TEXT NOT NULL DEFAULT '',
    format     TEXT NOT NULL,
    data       BLOB NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS labels_updated_at ON labels (updated_at DESC);
`

// SQLiteStore keeps labels in a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and migrates
// the schema.
func OpenSQLite(ctx context.Context, path string, log zerolog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migration: %w", err)
	}
	log.Debug().Str("path", path).Msg("sqlite store ready")
	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, r Record) error {
	if r.ID == "" {
		return fmt.Errorf("save label: empty id")
	}
	ts := now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = ts
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO labels (id, name, size_key, format, data, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            size_key = excluded.size_key,
            format = excluded.format,
            data = excluded.data,
            updated_at = excluded.updated_at
    `, r.ID, r.Name, r.SizeKey, r.Format, r.Data, r.CreatedAt.UnixNano(), ts.UnixNano())
	if err != nil {
		return fmt.Errorf("save label %s: %w", r.ID, err)
	}
	s.log.Debug().Str("id", r.ID).Int("bytes", len(r.Data)).Msg("label saved")
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, size_key, format, data, created_at, updated_at
        FROM labels
        WHERE id = ?
    `, id)

	var r Record
	var created, updated int64
	if err := row.Scan(&r.ID, &r.Name, &r.SizeKey, &r.Format, &r.Data, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Record{}, fmt.Errorf("load label %s: %w", id, err)
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	r.UpdatedAt = time.Unix(0, updated).UTC()
	return r, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, size_key, format, updated_at
        FROM labels
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		var updated int64
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.SizeKey, &sm.Format, &updated); err != nil {
			return nil, fmt.Errorf("list labels: %w", err)
		}
		sm.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM labels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete label %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
