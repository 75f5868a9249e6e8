package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jengzang/places-backend-go/internal/engine"
	"github.com/jengzang/places-backend-go/internal/middleware"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/repository"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// TriggerHandler handles HTTP requests for place triggers
type TriggerHandler struct {
	triggers *repository.TriggerRepository
	places   *repository.PlaceRepository
	cfg      engine.Config
}

// NewTriggerHandler creates a new trigger handler
func NewTriggerHandler(triggers *repository.TriggerRepository, places *repository.PlaceRepository, cfg engine.Config) *TriggerHandler {
	return &TriggerHandler{triggers: triggers, places: places, cfg: cfg}
}

// GetTriggers handles GET /api/v1/places/:id/triggers
func (h *TriggerHandler) GetTriggers(c *gin.Context) {
	triggers, err := h.triggers.TriggersForPlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if triggers == nil {
		triggers = []models.Trigger{}
	}
	response.Success(c, triggers)
}

// CreateTrigger handles POST /api/v1/places/:id/triggers
func (h *TriggerHandler) CreateTrigger(c *gin.Context) {
	placeID := c.Param("id")

	var req models.TriggerCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if !req.TriggerType.IsValid() {
		response.BadRequest(c, "triggerType must be entry or exit")
		return
	}
	if !req.ActionType.IsValid() {
		response.BadRequest(c, "unknown actionType "+string(req.ActionType))
		return
	}

	place, err := h.places.GetPlace(c.Request.Context(), placeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if place == nil {
		response.NotFound(c, "Place not found")
		return
	}

	trigger := &models.Trigger{
		ID:              uuid.NewString(),
		UID:             middleware.Owner(c),
		PlaceID:         placeID,
		Name:            req.Name,
		TriggerType:     req.TriggerType,
		ActionType:      req.ActionType,
		ActionPayload:   req.ActionPayload,
		Enabled:         true,
		CooldownMinutes: h.cfg.DefaultCooldownMinutes,
	}
	if req.Enabled != nil {
		trigger.Enabled = *req.Enabled
	}
	if req.CooldownMinutes != nil {
		if *req.CooldownMinutes < 0 {
			response.BadRequest(c, "cooldownMinutes must not be negative")
			return
		}
		trigger.CooldownMinutes = *req.CooldownMinutes
	}

	if err := h.triggers.CreateTrigger(c.Request.Context(), trigger); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, trigger)
}

type triggerUpdateRequest struct {
	Enabled bool `json:"enabled"`
}

// UpdateTrigger handles PUT /api/v1/places/:id/triggers/:triggerID
func (h *TriggerHandler) UpdateTrigger(c *gin.Context) {
	var req triggerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.triggers.SetEnabled(c.Request.Context(), c.Param("id"), c.Param("triggerID"), req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}
	if !updated {
		response.NotFound(c, "Trigger not found")
		return
	}
	response.Success(c, gin.H{"enabled": req.Enabled})
}

// DeleteTrigger handles DELETE /api/v1/places/:id/triggers/:triggerID
func (h *TriggerHandler) DeleteTrigger(c *gin.Context) {
	deleted, err := h.triggers.DeleteTrigger(c.Request.Context(), c.Param("id"), c.Param("triggerID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c, "Trigger not found")
		return
	}
	response.Success(c, gin.H{"triggerId": c.Param("triggerID")})
}
