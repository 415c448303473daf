package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidatesRejectsNonArray(t *testing.T) {
	for _, body := range []string{`{"items":[]}`, `"x"`, `null`, `not json`} {
		_, err := ParseCandidates([]byte(body))
		assert.ErrorIs(t, err, ErrBulkNotArray, body)
	}
}

func TestParseCandidatesNonObjectRows(t *testing.T) {
	candidates, err := ParseCandidates([]byte(`[1, "x", {"artist":"a","title":"b"}]`))
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	_, ok := candidates[0].ToFields()
	assert.False(t, ok)
	_, ok = candidates[1].ToFields()
	assert.False(t, ok)
	_, ok = candidates[2].ToFields()
	assert.True(t, ok)
}

func TestCandidateToFieldsSkipsMissingRequired(t *testing.T) {
	for _, c := range []Candidate{
		{"title": "x"},
		{"artist": "x"},
		{"artist": "   ", "title": "x"},
	} {
		_, ok := c.ToFields()
		assert.False(t, ok, c)
	}
}

func TestCandidateToFieldsCoercion(t *testing.T) {
	f, ok := Candidate{
		"artist":    " Can ",
		"title":     "Ege Bamyasi",
		"year":      "1972",
		"favorite":  "yes",
		"discogsId": 12345.0,
	}.ToFields()
	require.True(t, ok)

	assert.Equal(t, "Can", f.Artist)
	require.NotNil(t, f.Year)
	assert.Equal(t, 1972, *f.Year)
	assert.Equal(t, FormatLP, f.Format)
	assert.True(t, f.Favorite)
	require.NotNil(t, f.DiscogsID)
	assert.Equal(t, int64(12345), *f.DiscogsID)
	assert.Nil(t, f.DiscogsURL)
}

func TestCandidateYearOutOfRangeBecomesNull(t *testing.T) {
	for _, y := range []interface{}{1200.0, float64(MaxYear() + 5), "abc", 1999.5, true} {
		f, ok := Candidate{"artist": "a", "title": "b", "year": y}.ToFields()
		require.True(t, ok)
		assert.Nil(t, f.Year, y)
	}
}

func TestCandidateFavoriteTruthiness(t *testing.T) {
	cases := map[string]struct {
		in   interface{}
		want bool
	}{
		"nil":          {nil, false},
		"false":        {false, false},
		"zero":         {0.0, false},
		"empty string": {"", false},
		"true":         {true, true},
		"one":          {1.0, true},
		"string":       {"false", true},
		"object":       {map[string]interface{}{}, true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f, ok := Candidate{"artist": "a", "title": "b", "favorite": tc.in}.ToFields()
			require.True(t, ok)
			assert.Equal(t, tc.want, f.Favorite)
		})
	}
}

func TestCandidateFormat(t *testing.T) {
	f, _ := Candidate{"artist": "a", "title": "b", "format": "ep"}.ToFields()
	assert.Equal(t, FormatEP, f.Format)

	f, _ = Candidate{"artist": "a", "title": "b", "format": "8-track"}.ToFields()
	assert.Equal(t, FormatOther, f.Format)

	f, _ = Candidate{"artist": "a", "title": "b", "format": ""}.ToFields()
	assert.Equal(t, FormatLP, f.Format)
}
