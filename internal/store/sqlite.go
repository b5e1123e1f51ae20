package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/mrz1836/olympus/internal/ctxutil"
	olyerrors "github.com/mrz1836/olympus/internal/errors"
)

// SQLiteBackend keeps every namespace in one records table. The seq column
// preserves first-save order for ListKeys.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

const migrationV1Records = `
CREATE TABLE IF NOT EXISTS records (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE(namespace, key)
);
CREATE INDEX IF NOT EXISTS idx_records_namespace ON records(namespace, seq);
`

// NewSQLiteBackend opens (creating if needed) the database at path and
// applies pending migrations.
func NewSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	b := &SQLiteBackend{db: db, path: path}
	if err := b.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// Path returns the database file path.
func (b *SQLiteBackend) Path() string {
	return b.path
}

func (b *SQLiteBackend) migrate(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var current int
	if err := b.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Records},
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := b.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

// Save implements Backend. Upserts keep the original seq so index order
// does not change on overwrite.
func (b *SQLiteBackend) Save(ctx context.Context, namespace, key string, data []byte) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := validate(namespace, key); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO records (namespace, key, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		namespace, key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Load implements Backend.
func (b *SQLiteBackend) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := validate(namespace, key); err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	var data []byte
	err := b.db.QueryRowContext(ctx,
		"SELECT data FROM records WHERE namespace = ? AND key = ?", namespace, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", namespace, key, olyerrors.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", namespace, key, err)
	}
	return data, nil
}

// ListKeys implements Backend.
func (b *SQLiteBackend) ListKeys(ctx context.Context, namespace string) ([]string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := ValidateKey(namespace); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	rows, err := b.db.QueryContext(ctx,
		"SELECT key FROM records WHERE namespace = ? ORDER BY seq", namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", namespace, err)
	}
	defer func() { _ = rows.Close() }()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan %s key: %w", namespace, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close implements Backend.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
