package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventStarted   EventKind = "started"
	EventProgress  EventKind = "progress"
	EventCompleted EventKind = "completed"
	EventFailed    EventKind = "failed"
)

// ProgressEvent is the transient lifecycle event fanned out to observers of
// a job. It is never persisted; terminal state lives in the record store.
type ProgressEvent struct {
	Kind  EventKind `json:"kind"`
	JobID uuid.UUID `json:"job_id"`
	At    time.Time `json:"at"`

	// progress
	Iteration       int     `json:"iteration,omitempty"`
	MaxIterations   int     `json:"max_iterations,omitempty"`
	Objective       float64 `json:"objective,omitempty"`
	ObjectiveChange float64 `json:"objective_change,omitempty"`

	// completed
	DurationMs int64       `json:"duration_ms,omitempty"`
	Metrics    *FitMetrics `json:"metrics,omitempty"`

	// failed
	FailureKind FailureKind `json:"failure_kind,omitempty"`
	Message     string      `json:"message,omitempty"`
	Suggestion  string      `json:"suggestion,omitempty"`
}

// Terminal reports whether no events for the job follow this one.
func (e ProgressEvent) Terminal() bool {
	return e.Kind == EventCompleted || e.Kind == EventFailed
}

func StartedEvent(jobID uuid.UUID) ProgressEvent {
	return ProgressEvent{Kind: EventStarted, JobID: jobID, At: time.Now().UTC()}
}

func IterationEvent(jobID uuid.UUID, p FitProgress) ProgressEvent {
	return ProgressEvent{
		Kind:            EventProgress,
		JobID:           jobID,
		At:              time.Now().UTC(),
		Iteration:       p.Iteration,
		MaxIterations:   p.MaxIterations,
		Objective:       p.Objective,
		ObjectiveChange: p.ObjectiveChange,
	}
}

func CompletedEvent(jobID uuid.UUID, durationMs int64, metrics FitMetrics) ProgressEvent {
	return ProgressEvent{
		Kind:       EventCompleted,
		JobID:      jobID,
		At:         time.Now().UTC(),
		DurationMs: durationMs,
		Metrics:    &metrics,
	}
}

func FailedEvent(jobID uuid.UUID, kind FailureKind, message string) ProgressEvent {
	return ProgressEvent{
		Kind:        EventFailed,
		JobID:       jobID,
		At:          time.Now().UTC(),
		FailureKind: kind,
		Message:     message,
		Suggestion:  kind.Suggestion(),
	}
}
