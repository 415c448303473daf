package main

import (
	"net/http"

	"vinyl-collection/internal/shared/middleware"
	"vinyl-collection/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.Metrics(c.Metrics),
	)

	if c.Metrics != nil {
		router.GET(c.Config.Metrics.Path, gin.WrapH(c.Metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupRecordRoutes(api, c)
		setupCatalogRoutes(api, c)
	}

	return router
}

// ========================================
// RECORD ROUTES
// ========================================
func setupRecordRoutes(api *gin.RouterGroup, c *container.Container) {
	items := api.Group("/items")
	{
		items.GET("", c.RecordHandler.ListRecords)
		items.POST("", c.RecordHandler.CreateRecord)
		items.POST("/bulk", c.RecordHandler.BulkImport)
		items.GET("/export", c.RecordHandler.Export)
		items.GET("/stats", c.RecordHandler.Summary)
		items.GET("/:id", c.RecordHandler.GetRecord)
		items.PUT("/:id", c.RecordHandler.UpdateRecord)
		items.DELETE("/:id", c.RecordHandler.DeleteRecord)
	}
}

// ========================================
// CATALOG LOOKUP ROUTES
// ========================================
func setupCatalogRoutes(api *gin.RouterGroup, c *container.Container) {
	discogs := api.Group("/discogs")
	{
		discogs.GET("/search", c.CatalogHandler.Search)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c.DB != nil {
			if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
