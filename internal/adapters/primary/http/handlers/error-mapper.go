package handlers

import (
	"errors"
	"net/http"

	"atelier-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrDatasetNotFound),
		errors.Is(err, domain.ErrAttemptNotFound),
		errors.Is(err, domain.ErrColumnNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidProjectName),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrMissingFilename),
		errors.Is(err, domain.ErrNoTerms),
		errors.Is(err, domain.ErrNoResponse):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Unprocessable data
	case errors.Is(err, domain.ErrDatasetUnreadable),
		errors.Is(err, domain.ErrExplorationFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
