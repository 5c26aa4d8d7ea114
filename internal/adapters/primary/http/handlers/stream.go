package handlers

import (
	"net/http"

	"atelier-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The service fronts a local editor UI; origin policy is left to the
	// deployment's reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamFitEvents upgrades to a websocket and forwards the job's lifecycle
// events as JSON frames. For a job that is already terminal the stored record
// is replayed as a single terminal event, so reconnecting after a fit ends
// still resolves the stream.
func (h *Handler) StreamFitEvents(c *gin.Context) {
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

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Subscribe before checking the record: if the record reads non-terminal
	// here, the terminal event has not been published yet and will arrive on
	// the subscription.
	sub := h.orchestrator.Hub().Subscribe(id)
	defer sub.Close()

	attempt, err = h.attemptSvc.Get(c.Request.Context(), id)
	if err == nil && attempt.Status.Terminal() {
		_ = conn.WriteJSON(terminalEventFor(attempt))
		return
	}

	// Reader goroutine: the client sends nothing meaningful, but reading is
	// required to notice a dropped connection.
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
			if event.Terminal() {
				return
			}
		case <-disconnected:
			return
		}
	}
}

// terminalEventFor rebuilds the terminal event from a stored record.
func terminalEventFor(attempt *domain.ModelAttempt) domain.ProgressEvent {
	var durationMs int64
	if attempt.FitDurationMs != nil {
		durationMs = *attempt.FitDurationMs
	}

	if attempt.Status == domain.StatusCompleted {
		var metrics domain.FitMetrics
		if attempt.Metrics != nil {
			metrics = *attempt.Metrics
		}
		return domain.CompletedEvent(attempt.ID, durationMs, metrics)
	}
	return domain.FailedEvent(attempt.ID, attempt.FailureKind, attempt.FailureMessage)
}
