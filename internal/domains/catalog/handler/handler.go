package handler

import (
	"vinyl-collection/internal/domains/catalog/model"
	"vinyl-collection/internal/domains/catalog/service"
	"vinyl-collection/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(svc service.ServiceInterface) *Handler {
	return &Handler{service: svc}
}

// Search - GET /discogs/search?artist=&title=
func (h *Handler) Search(c *gin.Context) {
	hits, err := h.service.Search(c.Request.Context(), c.Query("artist"), c.Query("title"))
	if model.HandleCatalogError(c, err) {
		return
	}
	response.OK(c, model.SearchResponse{Results: hits})
}
