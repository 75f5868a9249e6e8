package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/places-backend-go/internal/middleware"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/service"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// PlaceHandler handles HTTP requests for place CRUD and statistics
type PlaceHandler struct {
	service *service.PlaceService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(service *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{service: service}
}

// CreatePlace handles POST /api/v1/places
func (h *PlaceHandler) CreatePlace(c *gin.Context) {
	var req models.PlaceCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	place, err := h.service.CreatePlace(c.Request.Context(), middleware.Owner(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, place)
}

// ListPlaces handles GET /api/v1/places
func (h *PlaceHandler) ListPlaces(c *gin.Context) {
	category := models.PlaceCategory(c.Query("category"))

	places, err := h.service.ListPlaces(c.Request.Context(), middleware.Owner(c), category)
	if err != nil {
		respondError(c, err)
		return
	}
	if places == nil {
		places = []models.Place{}
	}
	response.Success(c, places)
}

// GetPlace handles GET /api/v1/places/:id
func (h *PlaceHandler) GetPlace(c *gin.Context) {
	place, err := h.service.GetPlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if place == nil {
		response.NotFound(c, "Place not found")
		return
	}
	response.Success(c, place)
}

// UpdatePlace handles PUT /api/v1/places/:id
func (h *PlaceHandler) UpdatePlace(c *gin.Context) {
	var upd models.PlaceUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	place, err := h.service.UpdatePlace(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	if place == nil {
		response.NotFound(c, "Place not found")
		return
	}
	response.Success(c, place)
}

// DeletePlace handles DELETE /api/v1/places/:id
func (h *PlaceHandler) DeletePlace(c *gin.Context) {
	deleted, err := h.service.DeletePlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c, "Place not found")
		return
	}
	response.Success(c, gin.H{"placeId": c.Param("id")})
}

// CurrentPlace handles GET /api/v1/places/current
func (h *PlaceHandler) CurrentPlace(c *gin.Context) {
	place, err := h.service.CurrentPlace(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, place)
}

// FindNearby handles GET /api/v1/places/nearby
func (h *PlaceHandler) FindNearby(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.Query("lon"), 64)
	if err1 != nil || err2 != nil {
		response.BadRequest(c, "lat and lon query parameters are required")
		return
	}
	maxDistance, _ := strconv.ParseFloat(c.DefaultQuery("max_distance", "0"), 64)

	places, err := h.service.FindNearby(c.Request.Context(), middleware.Owner(c), lat, lon, maxDistance)
	if err != nil {
		respondError(c, err)
		return
	}
	if places == nil {
		places = []models.Place{}
	}
	response.Success(c, places)
}

// MostVisited handles GET /api/v1/places/most-visited
func (h *PlaceHandler) MostVisited(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	places, err := h.service.MostVisited(c.Request.Context(), middleware.Owner(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if places == nil {
		places = []models.Place{}
	}
	response.Success(c, places)
}

// QuickAdd handles POST /api/v1/places/quick-add
func (h *PlaceHandler) QuickAdd(c *gin.Context) {
	var req models.QuickAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	place, err := h.service.QuickAdd(c.Request.Context(), middleware.Owner(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, place)
}

// GetPlaceStats handles GET /api/v1/places/:id/stats
func (h *PlaceHandler) GetPlaceStats(c *gin.Context) {
	stats, err := h.service.PlaceStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if stats == nil {
		response.NotFound(c, "Place not found")
		return
	}
	response.Success(c, stats)
}

// GetPlaceVisits handles GET /api/v1/places/:id/visits
func (h *PlaceHandler) GetPlaceVisits(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	visits, found, err := h.service.PlaceVisits(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		response.NotFound(c, "Place not found")
		return
	}
	if visits == nil {
		visits = []models.Visit{}
	}
	response.Success(c, visits)
}
