package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier-service/internal/core/domain"
)

func collect(sub *Subscription, timeout time.Duration) []domain.ProgressEvent {
	var events []domain.ProgressEvent
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-deadline:
			return events
		}
	}
}

func TestHub_DeliversInPublishOrder(t *testing.T) {
	hub := NewHub()
	jobID := uuid.New()
	sub := hub.Subscribe(jobID)

	metrics := domain.FitMetrics{Converged: true, Iterations: 3}
	hub.Publish(domain.StartedEvent(jobID))
	hub.Publish(domain.IterationEvent(jobID, domain.FitProgress{Iteration: 1}))
	hub.Publish(domain.IterationEvent(jobID, domain.FitProgress{Iteration: 2}))
	hub.Publish(domain.CompletedEvent(jobID, 10, metrics))

	events := collect(sub, time.Second)
	require.Len(t, events, 4)
	assert.Equal(t, domain.EventStarted, events[0].Kind)
	assert.Equal(t, 1, events[1].Iteration)
	assert.Equal(t, 2, events[2].Iteration)
	assert.Equal(t, domain.EventCompleted, events[3].Kind)
}

func TestHub_ZeroObservers(t *testing.T) {
	hub := NewHub()
	jobID := uuid.New()

	// Must not panic or block.
	hub.Publish(domain.StartedEvent(jobID))
	hub.Publish(domain.CompletedEvent(jobID, 1, domain.FitMetrics{}))
	assert.Equal(t, 0, hub.Jobs())
}

func TestHub_LateSubscriberGetsTerminalEvent(t *testing.T) {
	hub := NewHub()
	jobID := uuid.New()

	hub.Publish(domain.StartedEvent(jobID))
	hub.Publish(domain.IterationEvent(jobID, domain.FitProgress{Iteration: 1}))

	sub := hub.Subscribe(jobID)
	hub.Publish(domain.FailedEvent(jobID, domain.FailureEstimationFailed, "separation detected"))

	events := collect(sub, time.Second)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventFailed, events[0].Kind)
	assert.Equal(t, domain.FailureEstimationFailed, events[0].FailureKind)
	assert.NotEmpty(t, events[0].Suggestion)
}

func TestHub_ChannelClosesAfterTerminalEvent(t *testing.T) {
	hub := NewHub()
	jobID := uuid.New()
	sub := hub.Subscribe(jobID)

	hub.Publish(domain.CompletedEvent(jobID, 5, domain.FitMetrics{}))

	ev, ok := <-sub.Events()
	require.True(t, ok)
	assert.Equal(t, domain.EventCompleted, ev.Kind)

	_, ok = <-sub.Events()
	assert.False(t, ok, "channel should be closed after the terminal event")
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()
	jobID := uuid.New()
	sub := hub.Subscribe(jobID)

	sub.Close()
	sub.Close()

	// Unsubscribing after the job ended must not panic either.
	other := hub.Subscribe(jobID)
	hub.Publish(domain.CompletedEvent(jobID, 1, domain.FitMetrics{}))
	other.Close()
	other.Close()
}

func TestHub_UnsubscribedObserverStopsReceiving(t *testing.T) {
	hub := NewHub()
	jobID := uuid.New()
	sub := hub.Subscribe(jobID)
	sub.Close()

	hub.Publish(domain.StartedEvent(jobID))

	_, ok := <-sub.Events()
	assert.False(t, ok)
}

func TestHub_DropsBookkeepingAfterTerminal(t *testing.T) {
	hub := NewHub()
	jobID := uuid.New()
	sub := hub.Subscribe(jobID)
	assert.Equal(t, 1, hub.Jobs())

	hub.Publish(domain.CompletedEvent(jobID, 1, domain.FitMetrics{}))
	assert.Equal(t, 0, hub.Jobs())

	collect(sub, time.Second)
}

func TestHub_SlowObserverDoesNotBlockPublisher(t *testing.T) {
	hub := NewHub()
	jobID := uuid.New()
	sub := hub.Subscribe(jobID) // never read until the end

	done := make(chan struct{})
	go func() {
		hub.Publish(domain.StartedEvent(jobID))
		for i := 1; i <= subscriberBuffer*3; i++ {
			hub.Publish(domain.IterationEvent(jobID, domain.FitProgress{Iteration: i}))
		}
		hub.Publish(domain.CompletedEvent(jobID, 1, domain.FitMetrics{}))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow observer")
	}

	events := collect(sub, time.Second)
	require.NotEmpty(t, events)
	assert.Equal(t, domain.EventCompleted, events[len(events)-1].Kind,
		"terminal event must survive buffer pressure")
}

func TestHub_ObserversAreJobScoped(t *testing.T) {
	hub := NewHub()
	jobA := uuid.New()
	jobB := uuid.New()
	subA := hub.Subscribe(jobA)
	subB := hub.Subscribe(jobB)

	hub.Publish(domain.StartedEvent(jobA))
	hub.Publish(domain.CompletedEvent(jobA, 1, domain.FitMetrics{}))
	hub.Publish(domain.StartedEvent(jobB))
	hub.Publish(domain.FailedEvent(jobB, domain.FailureUnclassified, "boom"))

	for _, ev := range collect(subA, time.Second) {
		assert.Equal(t, jobA, ev.JobID)
	}
	for _, ev := range collect(subB, time.Second) {
		assert.Equal(t, jobB, ev.JobID)
	}
}
