package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vinyl-collection/internal/domains/record/model"
	"vinyl-collection/internal/infrastructure/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*DocumentRepository, *docstore.FileStore) {
	t.Helper()
	store, err := docstore.NewFileStore(filepath.Join(t.TempDir(), "items.json"))
	require.NoError(t, err)
	return NewDocumentRepository(store), store
}

func fields(artist, title string) model.Fields {
	return model.Fields{Artist: artist, Title: title, Format: model.FormatLP}
}

func TestListEmpty(t *testing.T) {
	repo, _ := newTestRepository(t)
	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

// ids are max+1, so they never repeat while the max record survives
func TestCreateAssignsIncreasingIDs(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, fields("Can", "Tago Mago"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, fields("Neu!", "Neu! 75"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	_, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	c, err := repo.Create(ctx, fields("Faust", "IV"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
}

func TestGetByID(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, fields("Can", "Tago Mago"))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestUpdate(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	created, err := repo.Create(ctx, fields("Can", "Tago Mago"))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, func(r model.Record) (model.Record, error) {
		r.ID = 99
		r.Favorite = true
		return r, nil
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Favorite)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)

	_, err = repo.Update(ctx, 42, func(r model.Record) (model.Record, error) { return r, nil })
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestUpdateMergeErrorIsReturnedAsIs(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	created, err := repo.Create(ctx, fields("Can", "Tago Mago"))
	require.NoError(t, err)

	p, err := model.NewPatch(map[string]interface{}{"title": ""})
	require.NoError(t, err)
	_, err = repo.Update(ctx, created.ID, func(r model.Record) (model.Record, error) {
		return r.Merge(p)
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrDocumentWrite)
}

func TestDelete(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	created, err := repo.Create(ctx, fields("Can", "Tago Mago"))
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *removed)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

// one running counter for the batch, continuing after the current max
func TestCreateMany(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	_, err := repo.Create(ctx, fields("Can", "Tago Mago"))
	require.NoError(t, err)

	created, err := repo.CreateMany(ctx, []model.Fields{
		fields("a", "1"), fields("b", "2"), fields("c", "3"),
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, []int64{2, 3, 4}, []int64{created[0].ID, created[1].ID, created[2].ID})

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCreateManyEmptyBatch(t *testing.T) {
	repo, _ := newTestRepository(t)
	created, err := repo.CreateMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, created)
}

// the document on disk is a 2-space indented JSON array
func TestDocumentLayout(t *testing.T) {
	repo, store := newTestRepository(t)
	_, err := repo.Create(context.Background(), fields("Can", "Tago Mago"))
	require.NoError(t, err)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[\n  {\n    \"id\": 1,")
}

func TestCorruptDocument(t *testing.T) {
	repo, store := newTestRepository(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"not":"an array"}`), 0o644))

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, model.ErrDocumentCorrupt)

	_, err = repo.Create(context.Background(), fields("a", "b"))
	assert.ErrorIs(t, err, model.ErrDocumentCorrupt)
}

type failingStore struct {
	docstore.Store
	err error
}

func (s failingStore) Update(ctx context.Context, fn func([]byte) ([]byte, error)) error {
	return s.err
}

func TestWriteFailureIsTagged(t *testing.T) {
	_, inner := newTestRepository(t)
	repo := NewDocumentRepository(failingStore{Store: inner, err: errors.New("disk full")})

	_, err := repo.Create(context.Background(), fields("a", "b"))
	assert.ErrorIs(t, err, model.ErrDocumentWrite)
}

// deleting the newest record does not hand its id out again
func TestCreateAfterDeletingNewest(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, fields("Can", "Tago Mago"))
	require.NoError(t, err)
	_, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)

	b, err := repo.Create(ctx, fields("Can", "Tago Mago"))
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)

	batch, err := repo.CreateMany(ctx, []model.Fields{fields("x", "y")})
	require.NoError(t, err)
	assert.Greater(t, batch[0].ID, b.ID)
}
