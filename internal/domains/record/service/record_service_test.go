package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"vinyl-collection/internal/domains/record/model"
	"vinyl-collection/internal/domains/record/repository"
	"vinyl-collection/internal/infrastructure/docstore"
	"vinyl-collection/internal/infrastructure/metrics"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T) (*RecordService, BulkImportServiceInterface) {
	t.Helper()
	store, err := docstore.NewFileStore(filepath.Join(t.TempDir(), "items.json"))
	require.NoError(t, err)
	repo := repository.NewDocumentRepository(store)
	return NewRecordService(repo, nil), NewBulkImportService(repo, nil)
}

func patch(t *testing.T, v interface{}) model.Patch {
	t.Helper()
	p, err := model.NewPatch(v)
	require.NoError(t, err)
	return p
}

func TestCollectionScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateRecord(ctx, model.Fields{
		Artist: "Boards of Canada",
		Title:  "Music Has the Right to Children",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, model.FormatLP, created.Format)
	assert.False(t, created.Favorite)

	updated, err := svc.UpdateRecord(ctx, 1, patch(t, map[string]interface{}{"favorite": true}))
	require.NoError(t, err)
	assert.True(t, updated.Favorite)
	assert.Equal(t, "Boards of Canada", updated.Artist)

	removed, err := svc.DeleteRecord(ctx, 1)
	require.NoError(t, err)
	all, err := svc.ListRecords(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)

	// undo is a create with the removed content
	restored, err := svc.CreateRecord(ctx, removed.Fields)
	require.NoError(t, err)
	assert.Equal(t, int64(2), restored.ID)
	assert.Equal(t, removed.Fields, restored.Fields)
}

func TestCreateRecordValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateRecord(context.Background(), model.Fields{Artist: " ", Title: "x"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "artist")

	all, err := svc.ListRecords(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateRecordIDsStrictlyIncrease(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		r, err := svc.CreateRecord(ctx, model.Fields{Artist: "a", Title: "b"})
		require.NoError(t, err)
		assert.Greater(t, r.ID, last)
		last = r.ID
		if i%2 == 0 {
			_, err = svc.DeleteRecord(ctx, r.ID)
			require.NoError(t, err)
		}
	}
}

func TestUpdateEmptyPatchIsNoop(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	created, err := svc.CreateRecord(ctx, model.Fields{Artist: "Can", Title: "Future Days", Year: model.IntPtr(1973)})
	require.NoError(t, err)

	updated, err := svc.UpdateRecord(ctx, created.ID, model.Patch{})
	require.NoError(t, err)
	got, err := svc.GetRecord(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *got, *updated)
	assert.Equal(t, *created, *got)
}

func TestNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetRecord(ctx, 9)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
	_, err = svc.UpdateRecord(ctx, 9, model.Patch{})
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
	_, err = svc.DeleteRecord(ctx, 9)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestListRecordsSearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, f := range []model.Fields{
		{Artist: "Boards of Canada", Title: "Geogaddi"},
		{Artist: "Aphex Twin", Title: "Drukqs", Notes: "Warp 2001"},
		{Artist: "Autechre", Title: "Confield", Notes: "warp records"},
	} {
		_, err := svc.CreateRecord(ctx, f)
		require.NoError(t, err)
	}

	got, err := svc.ListRecords(ctx, "WARP")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.ListRecords(ctx, "geo")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Geogaddi", got[0].Title)

	got, err = svc.ListRecords(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestBulkImportSkipsInvalidRows(t *testing.T) {
	svc, bulk := newTestService(t)
	ctx := context.Background()

	candidates, err := model.ParseCandidates([]byte(`[{"title":"X"},{"artist":"A","title":"B"}]`))
	require.NoError(t, err)

	result, err := bulk.ImportRecords(ctx, candidates)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "A", result.Items[0].Artist)

	all, err := svc.ListRecords(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBulkImportNValidMInvalid(t *testing.T) {
	_, bulk := newTestService(t)

	rows := []model.Candidate{}
	for i := 0; i < 7; i++ {
		rows = append(rows, model.Candidate{"artist": "a", "title": "t", "year": 1990.0 + float64(i)})
	}
	for i := 0; i < 4; i++ {
		rows = append(rows, model.Candidate{"artist": "", "title": "t"})
	}

	result, err := bulk.ImportRecords(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 7, result.ImportedCount)
	for i := 1; i < len(result.Items); i++ {
		assert.Equal(t, result.Items[i-1].ID+1, result.Items[i].ID)
	}
}

type brokenStore struct{}

func (brokenStore) Read(context.Context) ([]byte, error) { return []byte(`[]`), nil }
func (brokenStore) Update(context.Context, func([]byte) ([]byte, error)) error {
	return errors.New("read-only filesystem")
}
func (brokenStore) Close() error { return nil }

// persistence failures surface to the caller, nothing is retried
func TestPersistenceFailure(t *testing.T) {
	repo := repository.NewDocumentRepository(brokenStore{})
	svc := NewRecordService(repo, nil)
	bulk := NewBulkImportService(repo, nil)

	_, err := svc.CreateRecord(context.Background(), model.Fields{Artist: "a", Title: "b"})
	assert.ErrorIs(t, err, model.ErrDocumentWrite)

	_, err = bulk.ImportRecords(context.Background(), []model.Candidate{{"artist": "a", "title": "b"}})
	assert.ErrorIs(t, err, model.ErrDocumentWrite)
}

// an empty patch is answered from a read; the document is not rewritten
func TestUpdateEmptyPatchDoesNotWrite(t *testing.T) {
	svc := NewRecordService(repository.NewDocumentRepository(seededReadOnlyStore{}), nil)
	ctx := context.Background()

	got, err := svc.UpdateRecord(ctx, 4, model.Patch{})
	require.NoError(t, err)
	assert.Equal(t, "Neu!", got.Artist)

	_, err = svc.UpdateRecord(ctx, 5, model.Patch{})
	assert.ErrorIs(t, err, model.ErrRecordNotFound)

	_, err = svc.UpdateRecord(ctx, 4, patch(t, map[string]interface{}{"notes": "x"}))
	assert.ErrorIs(t, err, model.ErrDocumentWrite)
}

type seededReadOnlyStore struct{ brokenStore }

func (seededReadOnlyStore) Read(context.Context) ([]byte, error) {
	return []byte(`[{"id":4,"artist":"Neu!","title":"Neu! 75","year":1975,"format":"LP","notes":"","favorite":false}]`), nil
}

func TestMutationsAreCounted(t *testing.T) {
	store, err := docstore.NewFileStore(filepath.Join(t.TempDir(), "items.json"))
	require.NoError(t, err)
	m := metrics.NewMetrics()
	svc := NewRecordService(repository.NewDocumentRepository(store), m)

	_, err = svc.CreateRecord(context.Background(), model.Fields{Artist: "a", Title: "b"})
	require.NoError(t, err)
	_, err = svc.CreateRecord(context.Background(), model.Fields{Artist: "c", Title: "d"})
	require.NoError(t, err)

	expected := `
# HELP collection_record_mutations_total Records affected by mutating operations
# TYPE collection_record_mutations_total counter
collection_record_mutations_total{operation="create"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "collection_record_mutations_total"))
}

func TestSummary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateRecord(ctx, model.Fields{Artist: "a", Title: "b", Favorite: true, Year: model.IntPtr(1977)})
	require.NoError(t, err)
	_, err = svc.CreateRecord(ctx, model.Fields{Artist: "c", Title: "d", Format: model.FormatCD})
	require.NoError(t, err)

	s, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Favorites)
	assert.Equal(t, 1, s.ByFormat[model.FormatCD])
	assert.Equal(t, int64(2), s.Recent[0].ID)
}

func TestExportJSON(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateRecord(ctx, model.Fields{Artist: "a", Title: "b"})
	require.NoError(t, err)

	var buf bytes.Buffer
	contentType, err := svc.Export(ctx, "json", &buf)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, contentType)

	var records []model.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	assert.Len(t, records, 1)
}

func TestExportXLSX(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.CreateRecord(ctx, model.Fields{Artist: "Can", Title: "Soon Over Babaluma", Year: model.IntPtr(1974)})
	require.NoError(t, err)

	var buf bytes.Buffer
	contentType, err := svc.Export(ctx, "XLSX", &buf)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, contentType)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Collection")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Artist", rows[0][1])
	assert.Equal(t, "Can", rows[1][1])
	assert.Equal(t, "1974", rows[1][3])
}

func TestExportUnsupported(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Export(context.Background(), "csv", &bytes.Buffer{})
	assert.ErrorIs(t, err, model.ErrUnsupportedExport)
}
