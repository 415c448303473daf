// Package discogs is a minimal client for the Discogs database search API
// and the pure mapping from its results to catalog hits.
package discogs
