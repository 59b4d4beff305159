package http

import (
	"github.com/gin-gonic/gin"

	"github.com/sustainscan/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("/:barcode", handler.ScanProduct)
			products.GET("/:barcode/alternatives", handler.GetAlternatives)
		}

		v1.POST("/contribute", handler.Contribute)

		favourites := v1.Group("/favourites")
		{
			favourites.GET("", handler.GetFavourites)
			favourites.GET("/:barcode", handler.GetFavourite)
			favourites.PUT("/:barcode", handler.PutFavourite)
			favourites.DELETE("/:barcode", handler.DeleteFavourite)
		}

		v1.GET("/recent", handler.GetRecentScans)
	}

	return router
}
