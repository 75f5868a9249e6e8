package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/places-backend-go/internal/engine"
	"github.com/jengzang/places-backend-go/internal/middleware"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// LocationHandler feeds location samples into the visit tracker and serves
// context snapshots
type LocationHandler struct {
	tracker *engine.VisitTracker
	context *engine.PlaceContextBuilder
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(tracker *engine.VisitTracker, context *engine.PlaceContextBuilder) *LocationHandler {
	return &LocationHandler{tracker: tracker, context: context}
}

type observeRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"` // Unix seconds; zero means now
}

// Observe handles POST /api/v1/location
func (h *LocationHandler) Observe(c *gin.Context) {
	var req observeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ts := time.Now()
	if req.Timestamp != 0 {
		ts = time.Unix(req.Timestamp, 0)
	}

	transition, err := h.tracker.Observe(c.Request.Context(), middleware.Owner(c), req.Latitude, req.Longitude, ts)
	if err != nil {
		respondError(c, err)
		return
	}
	if transition == nil {
		response.Success(c, gin.H{"transition": false})
		return
	}
	response.Success(c, gin.H{"transition": true, "detail": transition})
}

// GetContext handles GET /api/v1/places/context
func (h *LocationHandler) GetContext(c *gin.Context) {
	var lat, lon *float64
	if v := c.Query("lat"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			lat = &f
		}
	}
	if v := c.Query("lon"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			lon = &f
		}
	}

	context, err := h.context.Build(c.Request.Context(), middleware.Owner(c), lat, lon)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, context)
}
