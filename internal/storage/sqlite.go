package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv (
	namespace TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (namespace, key)
)`

// SQLite is the durable store. Every browser session gets its own namespace, the
// server-side counterpart of an origin's local storage.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and prepares the kv table.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and avoids SQLITE_BUSY on writes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// DB exposes the handle so other tables (activity) can live in the same file.
func (s *SQLite) DB() *sql.DB { return s.db }

func (s *SQLite) Close() error { return s.db.Close() }

// Namespace returns the KV view for one session.
func (s *SQLite) Namespace(ns string) *Namespace {
	return &Namespace{db: s.db, ns: ns}
}

// Namespaces lists every namespace holding at least one key.
func (s *SQLite) Namespaces(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT namespace FROM kv ORDER BY namespace`)
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, fmt.Errorf("scan namespace: %w", err)
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}

// Namespace is a KV scoped to one namespace of the kv table.
type Namespace struct {
	db *sql.DB
	ns string
}

func (n *Namespace) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := n.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, n.ns, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", n.ns, key, err)
	}
	return value, true, nil
}

func (n *Namespace) Set(ctx context.Context, key, value string) error {
	_, err := n.db.ExecContext(ctx, `
		INSERT INTO kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, n.ns, key, value, time.Now().UTC().Format(time.DateTime))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", n.ns, key, err)
	}
	return nil
}

func (n *Namespace) Remove(ctx context.Context, key string) error {
	if _, err := n.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ? AND key = ?`, n.ns, key); err != nil {
		return fmt.Errorf("remove %s/%s: %w", n.ns, key, err)
	}
	return nil
}

func (n *Namespace) Clear(ctx context.Context) error {
	if _, err := n.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ?`, n.ns); err != nil {
		return fmt.Errorf("clear %s: %w", n.ns, err)
	}
	return nil
}
