package discogs

import (
	"strings"

	"vinyl-collection/internal/domains/catalog/model"
)

// WebBaseURL prefixes the relative uri of a result
const WebBaseURL = "https://www.discogs.com"

// NormalizeResult maps one upstream result to a flat hit. Multi-valued
// label and format are joined with ", "; empty values become nil.
func NormalizeResult(r Result) model.Hit {
	hit := model.Hit{
		ID:            r.ID,
		Title:         r.Title,
		Year:          r.Year.Value,
		Country:       optional(r.Country),
		Label:         joined(r.Label),
		Format:        joined(r.Format),
		Thumb:         optional(r.Thumb),
		CatalogNumber: optional(r.Catno),
	}
	if r.URI != "" {
		u := r.URI
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			u = WebBaseURL + u
		}
		hit.ExternalURL = &u
	}
	return hit
}

// NormalizeResults maps a whole response; the slice is never nil
func NormalizeResults(resp *Response) []model.Hit {
	if resp == nil {
		return []model.Hit{}
	}
	hits := make([]model.Hit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, NormalizeResult(r))
	}
	return hits
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func joined(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	s := strings.Join(values, ", ")
	return &s
}
