package docstore

import (
	"context"
	"errors"
	"fmt"

	"vinyl-collection/internal/infrastructure/database"
	txutil "vinyl-collection/pkg/database"

	"github.com/jackc/pgx/v5"
)

const (
	pgCreateTable = `CREATE TABLE IF NOT EXISTS collection_documents (
	name       TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	pgSelect       = `SELECT body FROM collection_documents WHERE name = $1`
	pgSeed         = `INSERT INTO collection_documents (name, body) VALUES ($1, '[]'::jsonb) ON CONFLICT (name) DO NOTHING`
	pgSelectForUpd = `SELECT body FROM collection_documents WHERE name = $1 FOR UPDATE`
	pgUpdate       = `UPDATE collection_documents SET body = $2::jsonb, updated_at = now() WHERE name = $1`
)

// PostgresStore keeps the document in one JSONB row. Update holds the
// row lock for the whole read-modify-write.
type PostgresStore struct {
	db   *database.PostgresDB
	name string
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore ensures the table exists. db must already be connected.
func NewPostgresStore(ctx context.Context, db *database.PostgresDB) (*PostgresStore, error) {
	if db == nil || db.Pool == nil {
		return nil, errors.New("postgres pool is not initialized")
	}
	if _, err := db.Pool.Exec(ctx, pgCreateTable); err != nil {
		return nil, fmt.Errorf("create collection_documents: %w", err)
	}
	return &PostgresStore{db: db, name: DocumentName}, nil
}

func (s *PostgresStore) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := s.db.Pool.QueryRow(ctx, pgSelect, s.name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}
	return body, nil
}

func (s *PostgresStore) Update(ctx context.Context, fn func(current []byte) ([]byte, error)) error {
	return txutil.WithTransaction(ctx, s.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, pgSeed, s.name); err != nil {
			return fmt.Errorf("seed document: %w", err)
		}

		var current []byte
		if err := tx.QueryRow(ctx, pgSelectForUpd, s.name).Scan(&current); err != nil {
			return fmt.Errorf("lock document: %w", err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, pgUpdate, s.name, string(next)); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
