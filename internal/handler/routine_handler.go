package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/places-backend-go/internal/engine"
	"github.com/jengzang/places-backend-go/internal/middleware"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// RoutineHandler serves routine detection and deviation checks
type RoutineHandler struct {
	analyzer *engine.RoutineAnalyzer
}

// NewRoutineHandler creates a new routine handler
func NewRoutineHandler(analyzer *engine.RoutineAnalyzer) *RoutineHandler {
	return &RoutineHandler{analyzer: analyzer}
}

// GetRoutines handles GET /api/v1/places/routines
func (h *RoutineHandler) GetRoutines(c *gin.Context) {
	daysBack, _ := strconv.Atoi(c.DefaultQuery("days_back", "0"))
	if daysBack > 365 {
		daysBack = 365
	}

	routines, err := h.analyzer.DetectRoutines(c.Request.Context(), middleware.Owner(c), daysBack)
	if err != nil {
		respondError(c, err)
		return
	}
	if routines == nil {
		routines = []models.RoutinePattern{}
	}
	response.Success(c, routines)
}

// CheckDeviation handles GET /api/v1/places/routines/deviation
func (h *RoutineHandler) CheckDeviation(c *gin.Context) {
	report, err := h.analyzer.CheckDeviation(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if report == nil {
		response.Success(c, models.DeviationReport{IsDeviation: false})
		return
	}
	response.Success(c, report)
}
