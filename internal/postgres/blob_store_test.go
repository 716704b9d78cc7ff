package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/blob"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB emulates the blobs table closely enough for the three statements BlobStore issues.
type fakeDB struct {
	rows map[string]string
	err  error
}

type fakeRow struct {
	v   string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.v
	return nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	switch {
	case strings.Contains(sql, "INSERT INTO blobs"):
		f.rows[args[0].(string)] = args[1].(string)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "DELETE FROM blobs"):
		delete(f.rows, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	v, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{v: v}
}

func TestBlobStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := &BlobStore{DB: &fakeDB{rows: map[string]string{}}}
	require.NoError(t, s.Migrate(ctx))

	_, ok, err := s.Get(ctx, "users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "users", "[]"))
	v, ok, err := s.Get(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, s.Remove(ctx, "users"))
	_, ok, err = s.Get(ctx, "users")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlobStoreErrorsAreStorageErrors(t *testing.T) {
	ctx := context.Background()
	s := &BlobStore{DB: &fakeDB{err: errors.New("connection reset")}}

	_, _, err := s.Get(ctx, "users")
	assert.True(t, errors.Is(err, blob.ErrStorage))
	assert.True(t, errors.Is(s.Set(ctx, "users", "[]"), blob.ErrStorage))
	assert.True(t, errors.Is(s.Remove(ctx, "users"), blob.ErrStorage))
}
