package model

import (
	"encoding/json"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stored() Record {
	return Record{ID: 3, Fields: Fields{
		Artist: "Boards of Canada",
		Title:  "Geogaddi",
		Year:   IntPtr(2002),
		Format: FormatLP,
		Notes:  "gatefold",
	}}
}

func mustPatch(t *testing.T, v interface{}) Patch {
	t.Helper()
	p, err := NewPatch(v)
	require.NoError(t, err)
	return p
}

func TestMergeEmptyPatchIsNoop(t *testing.T) {
	r := stored()
	merged, err := r.Merge(Patch{})
	require.NoError(t, err)
	assert.Equal(t, r, merged)
}

func TestMergeOnlyTouchesSuppliedKeys(t *testing.T) {
	r := stored()
	merged, err := r.Merge(mustPatch(t, map[string]interface{}{"favorite": true, "notes": "signed"}))
	require.NoError(t, err)

	assert.True(t, merged.Favorite)
	assert.Equal(t, "signed", merged.Notes)
	assert.Equal(t, r.Artist, merged.Artist)
	assert.Equal(t, r.Year, merged.Year)
}

func TestMergeNeverChangesID(t *testing.T) {
	merged, err := stored().Merge(mustPatch(t, map[string]interface{}{"id": 99, "title": "Music Has the Right to Children"}))
	require.NoError(t, err)
	assert.Equal(t, int64(3), merged.ID)
	assert.Equal(t, "Music Has the Right to Children", merged.Title)
}

func TestMergeNullYearClears(t *testing.T) {
	merged, err := stored().Merge(mustPatch(t, map[string]interface{}{"year": nil}))
	require.NoError(t, err)
	assert.Nil(t, merged.Year)
}

func TestMergeValidation(t *testing.T) {
	r := stored()

	_, err := r.Merge(mustPatch(t, map[string]interface{}{"artist": "  "}))
	verrs, ok := err.(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, verrs, "artist")

	_, err = r.Merge(mustPatch(t, map[string]interface{}{"year": 1700}))
	verrs, ok = err.(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, verrs, "year")

	_, err = r.Merge(mustPatch(t, map[string]interface{}{"format": "Wax cylinder"}))
	verrs, ok = err.(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, verrs, "format")

	_, err = r.Merge(mustPatch(t, map[string]interface{}{"year": "nineteen"}))
	verrs, ok = err.(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, verrs, "year")
}

// an invalid record already in storage does not block unrelated edits
// Merge decodes into a copy; the stored record's pointers are not shared
func TestMergeLeavesReceiverUntouched(t *testing.T) {
	original := stored()
	original.DiscogsID = func(v int64) *int64 { return &v }(1015)
	original.Thumb = StringPtr("https://i.discogs.com/a.jpg")

	_, err := original.Merge(mustPatch(t, map[string]interface{}{"year": 1700}))
	require.Error(t, err)
	assert.Equal(t, 2002, *original.Year)

	merged, err := original.Merge(mustPatch(t, map[string]interface{}{
		"year":      1998,
		"discogsId": 2020,
		"thumb":     "https://i.discogs.com/b.jpg",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1998, *merged.Year)
	assert.Equal(t, 2002, *original.Year)
	assert.Equal(t, int64(1015), *original.DiscogsID)
	assert.Equal(t, "https://i.discogs.com/a.jpg", *original.Thumb)
	assert.Equal(t, int64(2020), *merged.DiscogsID)
}

func TestMergeIgnoresUntouchedInvalidFields(t *testing.T) {
	r := stored()
	r.Year = IntPtr(1200)

	merged, err := r.Merge(mustPatch(t, map[string]interface{}{"notes": "x"}))
	require.NoError(t, err)
	assert.Equal(t, "x", merged.Notes)
}

func TestMergeNormalizesFormat(t *testing.T) {
	merged, err := stored().Merge(mustPatch(t, map[string]interface{}{"format": "cassette"}))
	require.NoError(t, err)
	assert.Equal(t, FormatCassette, merged.Format)
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{ID: 1, Fields: Fields{Artist: "a", Title: "1", Year: IntPtr(1971), Format: FormatLP, Favorite: true}},
		{ID: 5, Fields: Fields{Artist: "b", Title: "2", Format: FormatCD}},
		{ID: 2, Fields: Fields{Artist: "c", Title: "3", Year: IntPtr(1999), Format: FormatLP}},
		{ID: 4, Fields: Fields{Artist: "d", Title: "4", Year: IntPtr(1985), Format: FormatCassette, Favorite: true}},
	}

	s := Summarize(records)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Favorites)
	assert.Equal(t, 2, s.ByFormat[FormatLP])
	assert.Equal(t, 1, s.ByFormat[FormatCD])
	assert.Equal(t, 0, s.ByFormat[FormatEP])
	require.NotNil(t, s.MinYear)
	require.NotNil(t, s.MaxYear)
	assert.Equal(t, 1971, *s.MinYear)
	assert.Equal(t, 1999, *s.MaxYear)

	require.Len(t, s.Recent, RecentLimit)
	assert.Equal(t, []int64{5, 4, 2}, []int64{s.Recent[0].ID, s.Recent[1].ID, s.Recent[2].ID})
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Nil(t, s.MinYear)
	assert.Empty(t, s.Recent)
	assert.NotNil(t, s.Recent)
}

func TestFieldTypeErrors(t *testing.T) {
	var f Fields
	err := json.Unmarshal([]byte(`{"artist":"Can","year":"soon"}`), &f)
	verrs, ok := FieldTypeErrors(err)
	require.True(t, ok)
	assert.EqualError(t, verrs["year"], "invalid value for year")

	err = json.Unmarshal([]byte(`{"artist":`), &f)
	_, ok = FieldTypeErrors(err)
	assert.False(t, ok)

	_, ok = FieldTypeErrors(nil)
	assert.False(t, ok)
}
