package http

import (
	"github.com/gin-gonic/gin"

	"github.com/matlens/backend/config"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.PerIP > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	}

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("/:id/matches", handler.FindMatches)
		}

		matches := v1.Group("/matches")
		{
			matches.POST("/apply", handler.ApplyMatch)
			matches.GET("/stats", handler.MatchStats)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.GET("/:id/nutrition", handler.RecipeNutrition)
			recipes.POST("/:id/scale", handler.ScaleRecipe)
		}
	}

	return router
}
