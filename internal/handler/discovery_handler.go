package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/places-backend-go/internal/engine"
	"github.com/jengzang/places-backend-go/internal/middleware"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// DiscoveryHandler serves place discovery suggestions and confirmations
type DiscoveryHandler struct {
	discoverer *engine.PlaceDiscoverer
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discoverer *engine.PlaceDiscoverer) *DiscoveryHandler {
	return &DiscoveryHandler{discoverer: discoverer}
}

// Discover handles GET /api/v1/places/discover
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	minVisits, _ := strconv.Atoi(c.DefaultQuery("min_visits", "0"))
	daysBack, _ := strconv.Atoi(c.DefaultQuery("days_back", "0"))
	if daysBack > 365 {
		daysBack = 365
	}

	candidates := h.discoverer.ListCandidates(middleware.Owner(c), minVisits, daysBack)
	if candidates == nil {
		candidates = []models.DiscoveryCandidate{}
	}
	response.Success(c, candidates)
}

// ConfirmDiscovery handles POST /api/v1/places/discover/confirm
func (h *DiscoveryHandler) ConfirmDiscovery(c *gin.Context) {
	var req models.ConfirmDiscoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	place, err := h.discoverer.Confirm(c.Request.Context(), middleware.Owner(c),
		req.Latitude, req.Longitude, req.Name, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, place)
}
