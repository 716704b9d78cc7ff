package postgres

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-storefront/internal/blob"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaBlobs = `
	CREATE TABLE IF NOT EXISTS blobs (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// BlobStore implements blob.Store on a single key/value table.
type BlobStore struct{ DB Querier }

func (s *BlobStore) Migrate(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, schemaBlobs)
	return err
}

func (s *BlobStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.DB.QueryRow(ctx, `SELECT value FROM blobs WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, blob.Wrap("get", key, err)
	}
	return v, true, nil
}

func (s *BlobStore) Set(ctx context.Context, key, value string) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO blobs(key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return blob.Wrap("set", key, err)
}

func (s *BlobStore) Remove(ctx context.Context, key string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM blobs WHERE key=$1`, key)
	return blob.Wrap("remove", key, err)
}
