package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jengzang/places-backend-go/internal/middleware"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/repository"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// TagHandler handles HTTP requests for tags and place-tag links
type TagHandler struct {
	tags   *repository.TagRepository
	places *repository.PlaceRepository
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tags *repository.TagRepository, places *repository.PlaceRepository) *TagHandler {
	return &TagHandler{tags: tags, places: places}
}

// ListTags handles GET /api/v1/tags
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tags.ListTags(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	response.Success(c, tags)
}

// CreateTag handles POST /api/v1/tags
func (h *TagHandler) CreateTag(c *gin.Context) {
	uid := middleware.Owner(c)

	var req models.TagCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	existing, err := h.tags.GetTagByName(c.Request.Context(), uid, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		response.BadRequest(c, "Tag already exists")
		return
	}

	tag := &models.Tag{ID: uuid.NewString(), UID: uid, Name: req.Name, Color: req.Color}
	if err := h.tags.CreateTag(c.Request.Context(), tag); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tag)
}

// DeleteTag handles DELETE /api/v1/tags/:id
func (h *TagHandler) DeleteTag(c *gin.Context) {
	deleted, err := h.tags.DeleteTag(c.Request.Context(), middleware.Owner(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c, "Tag not found")
		return
	}
	response.Success(c, gin.H{"tagId": c.Param("id")})
}

// GetPlaceTags handles GET /api/v1/places/:id/tags
func (h *TagHandler) GetPlaceTags(c *gin.Context) {
	place, err := h.places.GetPlace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if place == nil {
		response.NotFound(c, "Place not found")
		return
	}

	tags, err := h.tags.TagsForPlace(c.Request.Context(), place.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	response.Success(c, tags)
}

// AddTagToPlace handles POST /api/v1/places/:id/tags/:tagID
func (h *TagHandler) AddTagToPlace(c *gin.Context) {
	ctx := c.Request.Context()

	place, err := h.places.GetPlace(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	tag, err := h.tags.GetTag(ctx, middleware.Owner(c), c.Param("tagID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if place == nil || tag == nil {
		response.NotFound(c, "Place or tag not found")
		return
	}

	if err := h.tags.AddTagToPlace(ctx, place.ID, tag.ID); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"placeId": place.ID, "tagId": tag.ID})
}

// RemoveTagFromPlace handles DELETE /api/v1/places/:id/tags/:tagID
func (h *TagHandler) RemoveTagFromPlace(c *gin.Context) {
	if err := h.tags.RemoveTagFromPlace(c.Request.Context(), c.Param("id"), c.Param("tagID")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"placeId": c.Param("id"), "tagId": c.Param("tagID")})
}
