package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ========================================
// BULK IMPORT
// ========================================

// BulkImportResult - POST /items/bulk response
type BulkImportResult struct {
	ImportedCount int      `json:"importedCount"`
	Items         []Record `json:"items"`
}

// Candidate is one loosely-typed row of a bulk payload, as decoded from JSON
type Candidate map[string]interface{}

// ParseCandidates decodes a bulk body. The body must be a JSON array;
// elements that are not objects become empty candidates and are skipped later.
func ParseCandidates(body []byte) ([]Candidate, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil || rows == nil {
		return nil, ErrBulkNotArray
	}
	candidates := make([]Candidate, 0, len(rows))
	for _, raw := range rows {
		var c Candidate
		if err := json.Unmarshal(raw, &c); err != nil {
			c = Candidate{}
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// ToFields coerces a candidate into record fields.
// ok is false when artist or title is missing, in which case the row is skipped.
func (c Candidate) ToFields() (Fields, bool) {
	artist := strings.TrimSpace(looseString(c["artist"]))
	title := strings.TrimSpace(looseString(c["title"]))
	if artist == "" || title == "" {
		return Fields{}, false
	}

	f := Fields{
		Artist:        artist,
		Title:         title,
		Year:          looseYear(c["year"]),
		Format:        FormatLP,
		Notes:         looseString(c["notes"]),
		Favorite:      truthy(c["favorite"]),
		CatalogNumber: looseString(c["catalogNumber"]),
		MatrixInfo:    looseString(c["matrixInfo"]),
		Condition:     looseString(c["condition"]),
		DiscogsID:     looseInt64(c["discogsId"]),
		DiscogsURL:    looseOptionalString(c["discogsUrl"]),
		Thumb:         looseOptionalString(c["thumb"]),
	}
	if raw := looseString(c["format"]); raw != "" {
		if parsed, ok := ParseFormat(raw); ok {
			f.Format = parsed
		} else {
			f.Format = FormatOther
		}
	}
	return f, true
}

func looseString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if !t {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(t)
	}
}

func looseOptionalString(v interface{}) *string {
	s := strings.TrimSpace(looseString(v))
	if s == "" {
		return nil
	}
	return &s
}

func looseNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// looseYear yields an integer year inside the accepted range, otherwise nil
func looseYear(v interface{}) *int {
	n, ok := looseNumber(v)
	if !ok || n != math.Trunc(n) {
		return nil
	}
	year := int(n)
	if year < MinYear || year > MaxYear() {
		return nil
	}
	return &year
}

func looseInt64(v interface{}) *int64 {
	n, ok := looseNumber(v)
	if !ok || n != math.Trunc(n) || n <= 0 {
		return nil
	}
	id := int64(n)
	return &id
}

// truthy follows JSON-ish truthiness: false, 0, "" and null are false
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}
