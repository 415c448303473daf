package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	sqliteCreateTable = `CREATE TABLE IF NOT EXISTS collection_documents (
	name       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
)`
	sqliteSelect = `SELECT body FROM collection_documents WHERE name = ?`
	sqliteSeed   = `INSERT OR IGNORE INTO collection_documents (name, body) VALUES (?, '[]')`
	sqliteUpdate = `UPDATE collection_documents SET body = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now') WHERE name = ?`
)

// SQLiteStore keeps the document in one row of a local SQLite file.
// The seed insert opens the write transaction before the read, so two
// writers are serialized by SQLite's reserved lock.
type SQLiteStore struct {
	db   *sql.DB
	name string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteCreateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create collection_documents: %w", err)
	}
	return &SQLiteStore{db: db, name: DocumentName}, nil
}

func (s *SQLiteStore) Read(ctx context.Context) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, sqliteSelect, s.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}
	return []byte(body), nil
}

func (s *SQLiteStore) Update(ctx context.Context, fn func(current []byte) ([]byte, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, sqliteSeed, s.name); err != nil {
		return fmt.Errorf("seed document: %w", err)
	}

	var current string
	if err := tx.QueryRowContext(ctx, sqliteSelect, s.name).Scan(&current); err != nil {
		return fmt.Errorf("select document: %w", err)
	}

	next, err := fn([]byte(current))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, sqliteUpdate, string(next), s.name); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
