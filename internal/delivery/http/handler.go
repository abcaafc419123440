package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matlens/backend/internal/domain"
	"github.com/matlens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	matching  *usecase.MatchingService
	nutrition *usecase.NutritionService
	products  domain.ProductRepository
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	matching *usecase.MatchingService,
	nutrition *usecase.NutritionService,
	products domain.ProductRepository,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{matching: matching, nutrition: nutrition, products: products, logger: logger}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "matlens-backend",
		"version": "1.0.0",
	})
}

// FindMatches returns ranked catalog candidates for a product.
func (h *Handler) FindMatches(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	matches := h.matching.FindMatches(c.Request.Context(), product, limit)
	c.JSON(http.StatusOK, gin.H{
		"productId": product.ID,
		"matches":   matches,
	})
}

// ApplyMatch overwrites selected product fields from a catalog entry.
func (h *Handler) ApplyMatch(c *gin.Context) {
	var req domain.ApplyMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ProductID == "" || req.CatalogCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId and catalogCode are required"})
		return
	}

	result, err := h.matching.ApplyMatch(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MatchStats returns catalog coverage statistics.
func (h *Handler) MatchStats(c *gin.Context) {
	stats, err := h.matching.Stats(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RecipeNutrition returns recipe and per-portion totals.
func (h *Handler) RecipeNutrition(c *gin.Context) {
	nutrition, err := h.nutrition.ComputeRecipeTotals(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, nutrition)
}

type scaleRequest struct {
	Portions int `json:"portions" binding:"required"`
}

// ScaleRecipe rescales a recipe to a new portion count.
func (h *Handler) ScaleRecipe(c *gin.Context) {
	var req scaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.nutrition.ScaleRecipeByID(c.Request.Context(), c.Param("id"), req.Portions)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// renderError maps domain errors to HTTP status codes. Data integrity
// failures surface as 500s on purpose; the operator must see them.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoChangesRequested),
		errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConfiguration),
		errors.Is(err, domain.ErrIngredientProductNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
