package model

import (
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ========================================
// CREATE
// ========================================

// Validate checks the create payload. Call ApplyDefaults first so that
// artist/title are trimmed and format is normalized.
func (f Fields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Artist,
			validation.Required.Error("Artist is required."),
		),
		validation.Field(&f.Title,
			validation.Required.Error("Title is required."),
		),
		validation.Field(&f.Year, validation.By(yearInRange)),
		validation.Field(&f.Format, validation.By(knownFormat)),
	)
}

func yearInRange(value interface{}) error {
	year, _ := value.(*int)
	if year == nil {
		return nil
	}
	if *year < MinYear || *year > MaxYear() {
		return fmt.Errorf("Year must be between %d and %d.", MinYear, MaxYear())
	}
	return nil
}

func knownFormat(value interface{}) error {
	format, _ := value.(Format)
	if format == "" || format.IsValid() {
		return nil
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return fmt.Errorf("Format must be one of: %s", strings.Join(names, ", "))
}

// ========================================
// UPDATE (shallow merge)
// ========================================

// Patch is a partial record keyed by JSON field name. Only keys present
// in the patch overwrite the stored record; "id" is always ignored.
type Patch map[string]json.RawMessage

// NewPatch builds a Patch from any JSON-marshalable partial value
func NewPatch(v interface{}) (Patch, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var p Patch
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// Merge returns a copy of r with the patch applied on top.
// Returned validation.Errors only mention fields the patch touched.
func (r Record) Merge(p Patch) (Record, error) {
	merged := r.clone()
	targets := map[string]interface{}{
		"artist":        &merged.Artist,
		"title":         &merged.Title,
		"year":          &merged.Year,
		"format":        &merged.Format,
		"notes":         &merged.Notes,
		"favorite":      &merged.Favorite,
		"catalogNumber": &merged.CatalogNumber,
		"matrixInfo":    &merged.MatrixInfo,
		"condition":     &merged.Condition,
		"discogsId":     &merged.DiscogsID,
		"discogsUrl":    &merged.DiscogsURL,
		"thumb":         &merged.Thumb,
	}

	errs := validation.Errors{}
	for key, raw := range p {
		target, ok := targets[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			errs[key] = fmt.Errorf("invalid value for %s", key)
		}
	}
	if len(errs) > 0 {
		return r, errs
	}

	merged.ID = r.ID
	merged.Artist = strings.TrimSpace(merged.Artist)
	merged.Title = strings.TrimSpace(merged.Title)
	if parsed, ok := ParseFormat(string(merged.Format)); ok {
		merged.Format = parsed
	}

	if err := merged.Fields.Validate(); err != nil {
		if verrs, ok := err.(validation.Errors); ok {
			for key, fieldErr := range verrs {
				if _, touched := p[key]; touched && fieldErr != nil {
					errs[key] = fieldErr
				}
			}
		}
	}
	if _, touched := p["format"]; touched && merged.Format == "" {
		errs["format"] = fmt.Errorf("Format is required.")
	}
	if len(errs) > 0 {
		return r, errs
	}
	return merged, nil
}

// clone copies the pointer fields so decoding into the copy leaves r intact
func (r Record) clone() Record {
	c := r
	if r.Year != nil {
		c.Year = IntPtr(*r.Year)
	}
	if r.DiscogsID != nil {
		id := *r.DiscogsID
		c.DiscogsID = &id
	}
	if r.DiscogsURL != nil {
		c.DiscogsURL = StringPtr(*r.DiscogsURL)
	}
	if r.Thumb != nil {
		c.Thumb = StringPtr(*r.Thumb)
	}
	return c
}

// DeleteRecordResponse - DELETE /items/:id
type DeleteRecordResponse struct {
	Success bool   `json:"success"`
	Removed Record `json:"removed"`
}

// Summary - collection statistics shown on the home page
type Summary struct {
	Total     int            `json:"total"`
	Favorites int            `json:"favorites"`
	ByFormat  map[Format]int `json:"byFormat"`
	MinYear   *int           `json:"minYear"`
	MaxYear   *int           `json:"maxYear"`
	Recent    []Record       `json:"recent"`
}

// RecentLimit is how many records Summary.Recent carries
const RecentLimit = 3

// Summarize computes collection statistics. Recent uses the highest ids.
func Summarize(records []Record) Summary {
	s := Summary{
		Total:    len(records),
		ByFormat: make(map[Format]int, len(Formats)),
		Recent:   []Record{},
	}
	for _, f := range Formats {
		s.ByFormat[f] = 0
	}
	for _, r := range records {
		if r.Favorite {
			s.Favorites++
		}
		if f, ok := ParseFormat(string(r.Format)); ok {
			s.ByFormat[f]++
		}
		if r.Year != nil {
			if s.MinYear == nil || *r.Year < *s.MinYear {
				s.MinYear = IntPtr(*r.Year)
			}
			if s.MaxYear == nil || *r.Year > *s.MaxYear {
				s.MaxYear = IntPtr(*r.Year)
			}
		}
	}

	for _, r := range records {
		s.Recent = insertRecent(s.Recent, r)
	}
	return s
}

func insertRecent(recent []Record, r Record) []Record {
	pos := len(recent)
	for i, existing := range recent {
		if r.ID > existing.ID {
			pos = i
			break
		}
	}
	if pos >= RecentLimit {
		return recent
	}
	recent = append(recent, Record{})
	copy(recent[pos+1:], recent[pos:])
	recent[pos] = r
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return recent
}
