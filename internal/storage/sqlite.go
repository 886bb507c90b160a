package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLite is a KV backed by a single-table SQLite database. Suitable for
// single-instance deployments that want durability without a file per key.
type SQLite struct {
	db *sql.DB

	getStmt *sql.Stmt
	setStmt *sql.Stmt
	delStmt *sql.Stmt
}

// NewSQLite opens (or creates) the database at path and prepares the schema.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return s, nil
}

func (s *SQLite) prepare() error {
	var err error
	if s.getStmt, err = s.db.Prepare(`SELECT value FROM kv WHERE key = ?`); err != nil {
		return err
	}
	if s.setStmt, err = s.db.Prepare(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`); err != nil {
		return err
	}
	if s.delStmt, err = s.db.Prepare(`DELETE FROM kv WHERE key = ?`); err != nil {
		return err
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *SQLite) Get(key string) ([]byte, error) {
	var value []byte
	err := s.getStmt.QueryRow(key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set upserts value under key.
func (s *SQLite) Set(key string, value []byte) error {
	_, err := s.setStmt.Exec(key, value)
	return err
}

// Delete removes the value under key.
func (s *SQLite) Delete(key string) error {
	_, err := s.delStmt.Exec(key)
	return err
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
