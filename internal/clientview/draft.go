package clientview

import (
	"strings"

	catalogModel "vinyl-collection/internal/domains/catalog/model"
	"vinyl-collection/internal/domains/record/model"
)

// Draft is the record being composed on the client before create.
// Draft.Validate applies the same rules the server enforces.
type Draft = model.Fields

// ApplyHit merges a catalog hit into a draft. Fields the user already
// filled are kept; the external reference fields always come from the hit.
// Discogs titles read "Artist - Title" and are split accordingly.
func ApplyHit(draft Draft, hit catalogModel.Hit) Draft {
	artist, title := splitReleaseTitle(hit.Title)
	if strings.TrimSpace(draft.Artist) == "" && artist != "" {
		draft.Artist = artist
	}
	if strings.TrimSpace(draft.Title) == "" && title != "" {
		draft.Title = title
	}
	if draft.Year == nil && hit.Year != nil {
		y := *hit.Year
		if y >= model.MinYear && y <= model.MaxYear() {
			draft.Year = &y
		}
	}
	if draft.CatalogNumber == "" && hit.CatalogNumber != nil {
		draft.CatalogNumber = *hit.CatalogNumber
	}
	if draft.Format == "" && hit.Format != nil {
		if f, ok := formatFromHit(*hit.Format); ok {
			draft.Format = f
		}
	}

	if hit.ExternalURL != nil {
		u := *hit.ExternalURL
		draft.DiscogsURL = &u
	}
	if hit.Thumb != nil {
		t := *hit.Thumb
		draft.Thumb = &t
	}
	if hit.ID != 0 {
		id := hit.ID
		draft.DiscogsID = &id
	}
	return draft
}

func splitReleaseTitle(s string) (artist, title string) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " - "); i > 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+3:])
	}
	return "", s
}

// formatFromHit picks a record format from a joined Discogs format string
// such as "Vinyl, LP, Album"
func formatFromHit(s string) (model.Format, bool) {
	var fallback model.Format
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if f, ok := model.ParseFormat(token); ok && f != model.FormatOther {
			return f, true
		}
		switch strings.ToLower(token) {
		case "file":
			fallback = model.FormatDigital
		case "7\"", "45 rpm":
			if fallback == "" {
				fallback = model.FormatSingle
			}
		}
	}
	return fallback, fallback != ""
}
