package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/places-backend-go/internal/engine"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// respondError maps engine error categories to HTTP statuses.
func respondError(c *gin.Context, err error) {
	var invalid *engine.InvalidInputError
	var ordering *engine.TemporalOrderingError
	var consistency *engine.ConsistencyError

	switch {
	case errors.As(err, &invalid):
		response.BadRequest(c, invalid.Error())
	case errors.As(err, &ordering):
		response.UnprocessableEntity(c, ordering.Error())
	case errors.As(err, &consistency):
		response.Conflict(c, consistency.Error())
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
