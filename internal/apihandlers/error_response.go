package apihandlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"linkhoard/internal/models"
)

// ErrorResponse is the uniform error body for all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps store/model errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUniqueViolation), errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Errorf("API error: %v", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
