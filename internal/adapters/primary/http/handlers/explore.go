package handlers

import (
	"net/http"

	"atelier-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ExploreData runs the engine's pre-fit exploration of a dataset and, for a
// project with no fit history, records the null model as baseline v1.
func (h *Handler) ExploreData(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req dto.ExploreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exploration, err := h.exploreSvc.Explore(c.Request.Context(), projectID, req.DatasetID, req.ToExploreSpec())
	if err != nil {
		log.WithError(err).Error("exploration failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExplorationResponse(exploration))
}
