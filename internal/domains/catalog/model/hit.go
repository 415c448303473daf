package model

import "net/url"

// Hit is one normalized catalog search result. It is advisory only: the
// client merges it into a draft before creating or updating a record.
type Hit struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Year          *int    `json:"year"`
	Country       *string `json:"country"`
	Label         *string `json:"label"`
	Format        *string `json:"format"`
	Thumb         *string `json:"thumb"`
	ExternalURL   *string `json:"discogsUrl"`
	CatalogNumber *string `json:"catalogNumber"`
}

// SearchResponse - GET /discogs/search
type SearchResponse struct {
	Results []Hit `json:"results"`
}

// Query holds the optional search terms
type Query struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// IsEmpty reports whether neither term was supplied
func (q Query) IsEmpty() bool {
	return q.Artist == "" && q.Title == ""
}

// CacheKey - catalog:search:artist=<artist>&title=<title>, query-escaped
func (q Query) CacheKey() string {
	return "catalog:search:" + url.Values{
		"artist": {q.Artist},
		"title":  {q.Title},
	}.Encode()
}
