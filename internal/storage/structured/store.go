package structured

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"seenkeeper/internal/models"
	"seenkeeper/internal/storage"
	"seenkeeper/internal/storage/structured/migrations"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed structured store: one table of viewed items keyed
// by id and one generic key/value settings table holding JSON values.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open creates or opens the database at path and applies the embedded schema.
// Every error is reported as models.ErrStoreUnavailable.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, unavailable("open", fmt.Errorf("storage path is required"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, unavailable("open", err)
	}

	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, unavailable("open", err)
	}
	// SQLite allows a single writer; one connection also keeps pragmas in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable("ping", err)
	}
	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, unavailable("pragmas", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		db.Close()
		return nil, unavailable("migrate", err)
	}
	return &Store{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) GetAllViewedItems(ctx context.Context) (models.ViewedItems, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, first_seen_at FROM viewed_items`)
	if err != nil {
		return nil, unavailable("get viewed items", err)
	}
	defer rows.Close()

	items := make(models.ViewedItems)
	for rows.Next() {
		var (
			id string
			ts int64
		)
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, unavailable("scan viewed item", err)
		}
		items[id] = ts
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate viewed items", err)
	}
	return items, nil
}

const upsertItemSQL = `
	INSERT INTO viewed_items (id, first_seen_at) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET first_seen_at = excluded.first_seen_at`

// PutViewedItem upserts one record; an existing timestamp is overwritten.
func (s *Store) PutViewedItem(ctx context.Context, id string, ts int64) error {
	if _, err := s.db.ExecContext(ctx, upsertItemSQL, id, ts); err != nil {
		return unavailable("put viewed item", err)
	}
	return nil
}

// PutViewedItemsBulk upserts all entries in one transaction: either every
// entry is applied or none is.
func (s *Store) PutViewedItemsBulk(ctx context.Context, items models.ViewedItems) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("bulk put: begin", err)
	}
	defer tx.Rollback() // no-op after commit

	stmt, err := tx.PrepareContext(ctx, upsertItemSQL)
	if err != nil {
		return unavailable("bulk put: prepare", err)
	}
	defer stmt.Close()

	for id, ts := range items {
		if _, err := stmt.ExecContext(ctx, id, ts); err != nil {
			return unavailable("bulk put: "+id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("bulk put: commit", err)
	}
	return nil
}

func (s *Store) CountViewedItems(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM viewed_items`).Scan(&count); err != nil {
		return 0, unavailable("count viewed items", err)
	}
	return count, nil
}

func (s *Store) ClearAllViewedItems(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM viewed_items`); err != nil {
		return unavailable("clear viewed items", err)
	}
	return nil
}

func (s *Store) GetSetting(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("get setting "+key, err)
	}
	return []byte(value), true, nil
}

func (s *Store) PutSetting(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value),
	)
	if err != nil {
		return unavailable("put setting "+key, err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStoreUnavailable, op, err)
}
