/*
Package sqlite provides a SQLite-backed implementation of the store contract.

PURPOSE:
  Durable single-file persistence for job bundles. The schema is a
  single key-value table: bundles are opaque JSON, and the engine never
  queries inside them, so anything richer would be ceremony.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the single writer
  - Better crash recovery

USAGE:
  kv, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer kv.Close()

  svc := profile.NewService(kv)

Use ":memory:" for an in-memory database in tests.

SEE ALSO:
  - store: the KV contract and the in-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/store"
)

// KV implements store.KV on a single SQLite table.
type KV struct {
	db *sql.DB
}

var _ store.KV = (*KV)(nil)

// New opens (creating if needed) the database at dbPath.
func New(dbPath string) (*KV, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	kv := &KV{db: db}
	if err := kv.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return kv, nil
}

// Close closes the database connection.
func (kv *KV) Close() error {
	return kv.db.Close()
}

func (kv *KV) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bundles (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := kv.db.Exec(schema)
	return err
}

func (kv *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := kv.db.QueryRowContext(ctx,
		`SELECT value FROM bundles WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (kv *KV) Set(ctx context.Context, key, value string) error {
	_, err := kv.db.ExecContext(ctx,
		`INSERT INTO bundles (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (kv *KV) Delete(ctx context.Context, key string) error {
	_, err := kv.db.ExecContext(ctx, `DELETE FROM bundles WHERE key = ?`, key)
	return err
}

func (kv *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := kv.db.QueryContext(ctx,
		`SELECT key FROM bundles WHERE substr(key, 1, length(?)) = ? ORDER BY key`,
		prefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
