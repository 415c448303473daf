package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"vinyl-collection/internal/domains/record/model"
	service "vinyl-collection/internal/domains/record/service"
	"vinyl-collection/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler - HTTP handlers for /items
type Handler struct {
	service    service.ServiceInterface
	bulkImport service.BulkImportServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(svc service.ServiceInterface, bulkImport service.BulkImportServiceInterface) *Handler {
	return &Handler{
		service:    svc,
		bulkImport: bulkImport,
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		model.HandleRecordError(c, model.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// ListRecords - GET /items?search=
func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.service.ListRecords(c.Request.Context(), c.Query("search"))
	if model.HandleRecordError(c, err) {
		return
	}
	response.OK(c, records)
}

// GetRecord - GET /items/:id
func (h *Handler) GetRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	record, err := h.service.GetRecord(c.Request.Context(), id)
	if model.HandleRecordError(c, err) {
		return
	}
	response.OK(c, record)
}

// CreateRecord - POST /items
func (h *Handler) CreateRecord(c *gin.Context) {
	var fields model.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		log.Debug().Err(err).Msg("[Handler] Invalid create record request")
		if verrs, ok := model.FieldTypeErrors(err); ok {
			response.ValidationErrors(c, verrs)
			return
		}
		response.BadRequest(c, "Invalid request data")
		return
	}

	created, err := h.service.CreateRecord(c.Request.Context(), fields)
	if model.HandleRecordError(c, err) {
		return
	}
	response.Created(c, created)
}

// UpdateRecord - PUT /items/:id, shallow merge of the supplied keys
func (h *Handler) UpdateRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}
	patch := model.Patch{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &patch); err != nil {
			log.Debug().Err(err).Msg("[Handler] Invalid update record request")
			response.BadRequest(c, "Request body must be a JSON object")
			return
		}
	}

	updated, err := h.service.UpdateRecord(c.Request.Context(), id, patch)
	if model.HandleRecordError(c, err) {
		return
	}
	response.OK(c, updated)
}

// DeleteRecord - DELETE /items/:id
func (h *Handler) DeleteRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	removed, err := h.service.DeleteRecord(c.Request.Context(), id)
	if model.HandleRecordError(c, err) {
		return
	}
	response.OK(c, model.DeleteRecordResponse{Success: true, Removed: *removed})
}

// Summary - GET /items/stats
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if model.HandleRecordError(c, err) {
		return
	}
	response.OK(c, summary)
}

// Export - GET /items/export?format=json|xlsx
func (h *Handler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportFormatJSON)

	var buf bytes.Buffer
	contentType, err := h.service.Export(c.Request.Context(), format, &buf)
	if model.HandleRecordError(c, err) {
		return
	}

	ext := service.ExportFormatJSON
	if contentType == service.ContentTypeXLSX {
		ext = service.ExportFormatXLSX
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="vinyl-collection.%s"`, ext))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
