package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sustainscan/backend/internal/domain"
	"github.com/sustainscan/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scanService *usecase.ScanService
	favourites  domain.FavouritesRepository
	offClient   domain.OFFClient
}

// NewHandler creates a new HTTP handler
func NewHandler(scanService *usecase.ScanService, favourites domain.FavouritesRepository, offClient domain.OFFClient) *Handler {
	return &Handler{
		scanService: scanService,
		favourites:  favourites,
		offClient:   offClient,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "sustainscan-backend",
		"version": "1.0.0",
	})
}

// ScanProduct looks up a barcode and returns the full sustainability
// analysis.
func (h *Handler) ScanProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	result, err := h.scanService.Scan(c.Request.Context(), barcode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAlternatives returns suggested alternatives for a barcode
func (h *Handler) GetAlternatives(c *gin.Context) {
	barcode := c.Param("barcode")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = v
	}

	alternatives, err := h.scanService.Alternatives(c.Request.Context(), barcode, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barcode":      barcode,
		"alternatives": alternatives,
	})
}

// contributeRequest is the payload for submitting missing product data
type contributeRequest struct {
	Barcode     string   `json:"barcode"`
	Packaging   string   `json:"packaging"`
	Ingredients string   `json:"ingredients"`
	Brands      []string `json:"brands"`
	Categories  string   `json:"categories"`
	Labels      string   `json:"labels"`
}

func (r *contributeRequest) validate() []string {
	var problems []string

	if strings.TrimSpace(r.Barcode) == "" {
		problems = append(problems, "barcode is required")
	}
	if r.Packaging == "" && r.Ingredients == "" && len(r.Brands) == 0 && r.Categories == "" && r.Labels == "" {
		problems = append(problems, "at least one product field is required")
	}
	if r.Packaging != "" && len(strings.TrimSpace(r.Packaging)) < 2 {
		problems = append(problems, "packaging must be at least 2 characters")
	}
	if r.Ingredients != "" && len(strings.TrimSpace(r.Ingredients)) < 10 {
		problems = append(problems, "ingredients must be at least 10 characters")
	}

	return problems
}

// Contribute submits missing product fields back to the catalog
func (h *Handler) Contribute(c *gin.Context) {
	var req contributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if problems := req.validate(); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": problems,
		})
		return
	}

	fields := domain.ContributionFields{
		Packaging:   strings.TrimSpace(req.Packaging),
		Ingredients: strings.TrimSpace(req.Ingredients),
		Brands:      req.Brands,
		Categories:  strings.TrimSpace(req.Categories),
		Labels:      strings.TrimSpace(req.Labels),
	}

	if err := h.offClient.Contribute(c.Request.Context(), strings.TrimSpace(req.Barcode), fields); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "accepted",
		"barcode": strings.TrimSpace(req.Barcode),
	})
}

// GetFavourites lists all favourited scan results keyed by barcode
func (h *Handler) GetFavourites(c *gin.Context) {
	favourites, err := h.favourites.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(favourites),
		"favourites": favourites,
	})
}

// PutFavourite favourites a scan result. The body must contain a scan
// result as returned by the scan endpoint.
func (h *Handler) PutFavourite(c *gin.Context) {
	var result domain.ScanResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if result.Product == nil || result.Product.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product with a barcode is required"})
		return
	}
	if result.Product.Code != c.Param("barcode") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode in path and body must match"})
		return
	}

	if err := h.favourites.Put(c.Request.Context(), &result); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "saved",
		"barcode": result.Product.Code,
	})
}

// GetFavourite returns one favourited scan result
func (h *Handler) GetFavourite(c *gin.Context) {
	result, err := h.favourites.Get(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteFavourite removes a favourite
func (h *Handler) DeleteFavourite(c *gin.Context) {
	barcode := c.Param("barcode")

	if err := h.favourites.Delete(c.Request.Context(), barcode); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "deleted",
		"barcode": barcode,
	})
}

// GetRecentScans returns the scan history, newest first
func (h *Handler) GetRecentScans(c *gin.Context) {
	scans, err := h.favourites.RecentScans(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(scans),
		"scans": scans,
	})
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, domain.ErrNotFavourite):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a favourite"})
	case errors.Is(err, domain.ErrOFFAPIFailure), errors.Is(err, domain.ErrCarbonAPIFailure):
		log.Printf("[HTTP] upstream error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream service unavailable"})
	case errors.Is(err, domain.ErrAlternativesUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Alternatives unavailable"})
	default:
		log.Printf("[HTTP] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
