package clientview

import (
	"sort"
	"strings"
	"sync"

	"vinyl-collection/internal/domains/record/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// A Collator keeps scratch buffers, so each Project call borrows its own
var collators = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// FormatAll disables the format filter
const FormatAll = "All"

// SortKey selects the display order
type SortKey string

const (
	SortByArtist SortKey = "artist"
	SortByTitle  SortKey = "title"
	SortByYear   SortKey = "year"
)

// ParseSortKey falls back to artist for unknown keys
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByTitle:
		return SortByTitle
	case SortByYear:
		return SortByYear
	}
	return SortByArtist
}

// Filters are AND-combined. Search is applied by the server; the other
// predicates run locally on the snapshot.
type Filters struct {
	OnlyFavorites bool
	Format        string // FormatAll, "" or a format name
	MinYear       *int
	MaxYear       *int
	Search        string
}

// Match reports whether r passes every local predicate.
// A record without a year always passes the year bounds.
func (f Filters) Match(r model.Record) bool {
	if f.OnlyFavorites && !r.Favorite {
		return false
	}
	if f.Format != "" && !strings.EqualFold(f.Format, FormatAll) &&
		!strings.EqualFold(string(r.Format), f.Format) {
		return false
	}
	if r.Year != nil {
		if f.MinYear != nil && *r.Year < *f.MinYear {
			return false
		}
		if f.MaxYear != nil && *r.Year > *f.MaxYear {
			return false
		}
	}
	return true
}

// Project filters and orders a snapshot without modifying it.
// Year sorting treats a missing year as 0, so undated records lead.
func Project(snapshot []model.Record, filters Filters, key SortKey) []model.Record {
	out := make([]model.Record, 0, len(snapshot))
	for _, r := range snapshot {
		if filters.Match(r) {
			out = append(out, r)
		}
	}

	switch key {
	case SortByYear:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].YearOrZero() < out[j].YearOrZero()
		})
	case SortByTitle:
		col := collators.Get().(*collate.Collator)
		defer collators.Put(col)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Title, out[j].Title) < 0
		})
	default:
		col := collators.Get().(*collate.Collator)
		defer collators.Put(col)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Artist, out[j].Artist) < 0
		})
	}
	return out
}
