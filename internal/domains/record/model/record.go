package model

import (
	"strings"
	"time"
)

// Format represents valid physical/digital release formats
type Format string

const (
	FormatLP       Format = "LP"
	FormatEP       Format = "EP"
	FormatSingle   Format = "Single"
	FormatCD       Format = "CD"
	FormatCassette Format = "Cassette"
	FormatDigital  Format = "Digital"
	FormatOther    Format = "Other"
)

// Formats lists every format in display order
var Formats = []Format{FormatLP, FormatEP, FormatSingle, FormatCD, FormatCassette, FormatDigital, FormatOther}

func (f Format) IsValid() bool {
	switch f {
	case FormatLP, FormatEP, FormatSingle, FormatCD, FormatCassette, FormatDigital, FormatOther:
		return true
	}
	return false
}

func (f Format) String() string {
	return string(f)
}

// ParseFormat matches s case-insensitively against the known formats
func ParseFormat(s string) (Format, bool) {
	s = strings.TrimSpace(s)
	for _, f := range Formats {
		if strings.EqualFold(string(f), s) {
			return f, true
		}
	}
	return "", false
}

// Year bounds accepted for a release
const MinYear = 1880

// MaxYear is one year past the current calendar year
func MaxYear() int {
	return time.Now().Year() + 1
}

// ========================================
// ENTITIES
// ========================================

// Fields holds every record attribute except the store-assigned id.
// It is the payload for create and the content kept by the undo slot.
type Fields struct {
	Artist        string  `json:"artist"`
	Title         string  `json:"title"`
	Year          *int    `json:"year"`
	Format        Format  `json:"format"`
	Notes         string  `json:"notes"`
	Favorite      bool    `json:"favorite"`
	CatalogNumber string  `json:"catalogNumber"`
	MatrixInfo    string  `json:"matrixInfo"`
	Condition     string  `json:"condition"`
	DiscogsID     *int64  `json:"discogsId"`
	DiscogsURL    *string `json:"discogsUrl"`
	Thumb         *string `json:"thumb"`
}

// Record - one catalog entry as persisted in the collection document
type Record struct {
	ID int64 `json:"id"`
	Fields
}

// ApplyDefaults trims the required strings and fills data-model defaults
func (f *Fields) ApplyDefaults() {
	f.Artist = strings.TrimSpace(f.Artist)
	f.Title = strings.TrimSpace(f.Title)
	if f.Format == "" {
		f.Format = FormatLP
	} else if parsed, ok := ParseFormat(string(f.Format)); ok {
		f.Format = parsed
	}
	f.DiscogsURL = emptyToNil(f.DiscogsURL)
	f.Thumb = emptyToNil(f.Thumb)
}

// HasYear reports whether the record carries a release year
func (r Record) HasYear() bool {
	return r.Year != nil
}

// YearOrZero returns the year, or 0 when absent
func (r Record) YearOrZero() int {
	if r.Year == nil {
		return 0
	}
	return *r.Year
}

// Matches reports whether term occurs case-insensitively in artist, title or notes
func (r Record) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(r.Artist), term) ||
		strings.Contains(strings.ToLower(r.Title), term) ||
		strings.Contains(strings.ToLower(r.Notes), term)
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// IntPtr / StringPtr are small literal helpers
func IntPtr(v int) *int { return &v }

func StringPtr(v string) *string { return &v }
