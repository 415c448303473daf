package model

import (
	"errors"
	"fmt"
	"net/http"

	"vinyl-collection/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingQuery       = errors.New("at least one of 'artist' or 'title' query parameters is required")
	ErrTokenNotConfigured = errors.New("discogs token not configured on server")
)

// UpstreamError wraps a failed call to the catalog service.
// StatusCode is 0 when the service could not be reached at all.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Discogs API error: %d", e.StatusCode)
	}
	return fmt.Sprintf("Failed to contact Discogs API: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// HandleCatalogError writes the HTTP response for err and reports whether it did
func HandleCatalogError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrMissingQuery):
		response.BadRequest(c, "At least one of 'artist' or 'title' query parameters is required.")
	case errors.Is(err, ErrTokenNotConfigured):
		response.InternalServerError(c, "Discogs token not configured on server.")
	case errors.As(err, &upstream):
		log.Warn().Err(err).Int("upstream_status", upstream.StatusCode).Msg("Catalog lookup failed")
		if upstream.StatusCode >= http.StatusBadRequest {
			response.Error(c, upstream.StatusCode, upstream.Error())
		} else {
			response.InternalServerError(c, "Failed to contact Discogs API.")
		}
	default:
		log.Error().Err(err).Msg("Unhandled catalog error")
		response.InternalServerError(c, "Failed to contact Discogs API.")
	}
	return true
}
