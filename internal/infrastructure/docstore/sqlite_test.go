package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "collection.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	data, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	// the first update sees the seeded empty array
	err = store.Update(ctx, func(current []byte) ([]byte, error) {
		assert.JSONEq(t, `[]`, string(current))
		return []byte(`[{"id":1,"artist":"Can"}]`), nil
	})
	require.NoError(t, err)

	data, err = store.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"artist":"Can"}]`, string(data))
}

func TestSQLiteStoreUpdateRollsBack(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "collection.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Update(ctx, func([]byte) ([]byte, error) {
		return []byte(`[1]`), nil
	}))

	boom := errors.New("boom")
	assert.ErrorIs(t, store.Update(ctx, func([]byte) ([]byte, error) {
		return nil, boom
	}), boom)

	data, err := store.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[1]`, string(data))
}

// reopening the same file sees the stored document
func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "collection.db")

	first, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Update(ctx, func([]byte) ([]byte, error) {
		return []byte(`["kept"]`), nil
	}))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	data, err := second.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `["kept"]`, string(data))
}
