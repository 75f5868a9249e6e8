package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jengzang/places-backend-go/internal/middleware"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/repository"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// ListHandler handles HTTP requests for place lists
type ListHandler struct {
	lists  *repository.ListRepository
	places *repository.PlaceRepository
}

// NewListHandler creates a new list handler
func NewListHandler(lists *repository.ListRepository, places *repository.PlaceRepository) *ListHandler {
	return &ListHandler{lists: lists, places: places}
}

// ListLists handles GET /api/v1/lists
func (h *ListHandler) ListLists(c *gin.Context) {
	lists, err := h.lists.ListLists(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if lists == nil {
		lists = []models.PlaceList{}
	}
	response.Success(c, lists)
}

// CreateList handles POST /api/v1/lists
func (h *ListHandler) CreateList(c *gin.Context) {
	uid := middleware.Owner(c)

	var req models.PlaceListCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	existing, err := h.lists.GetListByName(c.Request.Context(), uid, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		response.BadRequest(c, "List already exists")
		return
	}

	list := &models.PlaceList{
		ID:          uuid.NewString(),
		UID:         uid,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	}
	if err := h.lists.CreateList(c.Request.Context(), list); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, list)
}

// DeleteList handles DELETE /api/v1/lists/:id
func (h *ListHandler) DeleteList(c *gin.Context) {
	deleted, err := h.lists.DeleteList(c.Request.Context(), middleware.Owner(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c, "List not found")
		return
	}
	response.Success(c, gin.H{"listId": c.Param("id")})
}

// GetListPlaces handles GET /api/v1/lists/:id/places
func (h *ListHandler) GetListPlaces(c *gin.Context) {
	list, err := h.lists.GetList(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		response.NotFound(c, "List not found")
		return
	}

	places, err := h.lists.PlacesInList(c.Request.Context(), list.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if places == nil {
		places = []models.Place{}
	}
	response.Success(c, places)
}

// AddPlaceToList handles POST /api/v1/lists/:id/places/:placeID
func (h *ListHandler) AddPlaceToList(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.lists.GetList(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	place, err := h.places.GetPlace(ctx, c.Param("placeID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil || place == nil {
		response.NotFound(c, "List or place not found")
		return
	}

	if err := h.lists.AddPlaceToList(ctx, list.ID, place.ID); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"listId": list.ID, "placeId": place.ID})
}

// RemovePlaceFromList handles DELETE /api/v1/lists/:id/places/:placeID
func (h *ListHandler) RemovePlaceFromList(c *gin.Context) {
	if err := h.lists.RemovePlaceFromList(c.Request.Context(), c.Param("id"), c.Param("placeID")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"listId": c.Param("id"), "placeId": c.Param("placeID")})
}

// GetPlaceLists handles GET /api/v1/places/:id/lists
func (h *ListHandler) GetPlaceLists(c *gin.Context) {
	place, err := h.places.GetPlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if place == nil {
		response.NotFound(c, "Place not found")
		return
	}

	lists, err := h.lists.ListsForPlace(c.Request.Context(), place.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if lists == nil {
		lists = []models.PlaceList{}
	}
	response.Success(c, lists)
}
