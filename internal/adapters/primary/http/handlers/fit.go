package handlers

import (
	"net/http"

	"atelier-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SubmitFit schedules a fit and returns 202 immediately. Clients follow the
// job through GET /fits/:id or the event stream.
func (h *Handler) SubmitFit(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req dto.SubmitFitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.orchestrator.Submit(c.Request.Context(), projectID, req.DatasetID, req.ToFitSpec())
	if err != nil {
		log.WithError(err).Error("submit fit failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.SubmitFitResponse{
		JobID:   attempt.ID,
		Version: attempt.Version,
		Status:  string(attempt.Status),
	})
}

func (h *Handler) GetFit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	attempt, err := h.attemptSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttemptResponse(attempt))
}

func (h *Handler) ListFitHistory(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	attempts, err := h.attemptSvc.History(c.Request.Context(), projectID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		items = append(items, dto.ToAttemptSummaryResponse(a))
	}

	c.JSON(http.StatusOK, dto.ListAttemptsResponse{Items: items, Total: len(items)})
}
