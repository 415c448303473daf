package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"vinyl-collection/internal/shared/response"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrInvalidID         = errors.New("invalid id")
	ErrBulkNotArray      = errors.New("bulk import expects an array of items in the request body")
	ErrDocumentRead      = errors.New("failed to read collection document")
	ErrDocumentWrite     = errors.New("failed to write collection document")
	ErrDocumentCorrupt   = errors.New("collection document is not a JSON array of records")
	ErrUnsupportedExport = errors.New("unsupported export format")
)

var recordErrorMap = map[error]struct {
	Status  int
	Message string
}{
	ErrRecordNotFound:    {Status: http.StatusNotFound, Message: "Item not found"},
	ErrInvalidID:         {Status: http.StatusBadRequest, Message: "Invalid ID"},
	ErrBulkNotArray:      {Status: http.StatusBadRequest, Message: "Bulk import expects an array of items in the request body."},
	ErrUnsupportedExport: {Status: http.StatusBadRequest, Message: "Export format must be json or xlsx."},
	ErrDocumentRead:      {Status: http.StatusInternalServerError, Message: "Failed to read items"},
	ErrDocumentWrite:     {Status: http.StatusInternalServerError, Message: "Failed to save items"},
	ErrDocumentCorrupt:   {Status: http.StatusInternalServerError, Message: "Collection data is corrupt"},
}

// HandleRecordError writes the HTTP response for err and reports whether it did.
// Field validation failures render as {"errors": {field: message}}.
func HandleRecordError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationErrors(c, verrs)
		return true
	}

	for target, cfg := range recordErrorMap {
		if errors.Is(err, target) {
			if cfg.Status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Record request failed")
			}
			response.Error(c, cfg.Status, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled record error")
	response.InternalServerError(c, "Internal server error")
	return true
}

// FieldTypeErrors turns a JSON type mismatch on a known field into a
// field-level validation error. Other decode errors return false.
func FieldTypeErrors(err error) (validation.Errors, bool) {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return nil, false
	}
	return validation.Errors{
		typeErr.Field: fmt.Errorf("invalid value for %s", typeErr.Field),
	}, true
}
