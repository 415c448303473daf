package handler

import (
	"vinyl-collection/internal/domains/record/model"
	"vinyl-collection/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// BulkImport - POST /items/bulk with a JSON array body
func (h *Handler) BulkImport(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	candidates, err := model.ParseCandidates(body)
	if model.HandleRecordError(c, err) {
		return
	}

	result, err := h.bulkImport.ImportRecords(c.Request.Context(), candidates)
	if model.HandleRecordError(c, err) {
		return
	}
	response.Created(c, result)
}
