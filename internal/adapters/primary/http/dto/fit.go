package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"atelier-service/internal/core/domain"
)

type SubmitFitRequest struct {
	DatasetID uuid.UUID         `json:"dataset_id" binding:"required"`
	Response  string            `json:"response" binding:"required"`
	Family    string            `json:"family" binding:"required"`
	Link      string            `json:"link"`
	Offset    string            `json:"offset"`
	Weights   string            `json:"weights"`
	Terms     []TermSpecDTO     `json:"terms" binding:"required"`
	Split     *domain.SplitSpec `json:"split"`
}

type TermSpecDTO struct {
	Column       string  `json:"column" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	DF           *int    `json:"df"`
	K            *int    `json:"k"`
	Monotonicity *string `json:"monotonicity"`
	Expr         *string `json:"expr"`
}

func (r SubmitFitRequest) ToFitSpec() domain.FitSpec {
	terms := make([]domain.TermSpec, 0, len(r.Terms))
	for _, t := range r.Terms {
		terms = append(terms, domain.TermSpec{
			Column:       t.Column,
			Type:         t.Type,
			DF:           t.DF,
			K:            t.K,
			Monotonicity: t.Monotonicity,
			Expr:         t.Expr,
		})
	}
	return domain.FitSpec{
		Response: r.Response,
		Family:   r.Family,
		Link:     r.Link,
		Offset:   r.Offset,
		Weights:  r.Weights,
		Terms:    terms,
		Split:    r.Split,
	}
}

// SubmitFitResponse acknowledges a scheduled fit. The fit itself has not
// started when this is returned.
type SubmitFitResponse struct {
	JobID   uuid.UUID `json:"job_id"`
	Version int       `json:"version"`
	Status  string    `json:"status"`
}

type AttemptResponse struct {
	ID        uuid.UUID      `json:"id"`
	ProjectID uuid.UUID      `json:"project_id"`
	DatasetID uuid.UUID      `json:"dataset_id"`
	Version   int            `json:"version"`
	Name      string         `json:"name"`
	CreatedAt string         `json:"created_at"`
	Spec      domain.FitSpec `json:"spec"`
	Status    string         `json:"status"`

	FitDurationMs *int64 `json:"fit_duration_ms,omitempty"`

	Metrics       *domain.FitMetrics      `json:"metrics,omitempty"`
	Coefficients  []domain.CoefficientRow `json:"coefficients,omitempty"`
	Relativities  []domain.RelativityRow  `json:"relativities,omitempty"`
	Diagnostics   json.RawMessage         `json:"diagnostics,omitempty"`
	GeneratedCode string                  `json:"generated_code,omitempty"`
	Summary       string                  `json:"summary,omitempty"`

	FailureKind       string `json:"failure_kind,omitempty"`
	FailureMessage    string `json:"failure_message,omitempty"`
	FailureSuggestion string `json:"failure_suggestion,omitempty"`
}

type ListAttemptsResponse struct {
	Items []AttemptResponse `json:"items"`
	Total int               `json:"total"`
}

func ToAttemptResponse(a *domain.ModelAttempt) AttemptResponse {
	return AttemptResponse{
		ID:            a.ID,
		ProjectID:     a.ProjectID,
		DatasetID:     a.DatasetID,
		Version:       a.Version,
		Name:          a.Name,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		Spec:          a.Spec,
		Status:        string(a.Status),
		FitDurationMs: a.FitDurationMs,

		Metrics:       a.Metrics,
		Coefficients:  a.Coefficients,
		Relativities:  a.Relativities,
		Diagnostics:   a.Diagnostics,
		GeneratedCode: a.GeneratedCode,
		Summary:       a.Summary,

		FailureKind:       string(a.FailureKind),
		FailureMessage:    a.FailureMessage,
		FailureSuggestion: a.FailureSuggestion,
	}
}

// ToAttemptSummaryResponse is the history-list shape: result payloads are
// trimmed so a long history stays cheap to return.
func ToAttemptSummaryResponse(a *domain.ModelAttempt) AttemptResponse {
	resp := ToAttemptResponse(a)
	resp.Coefficients = nil
	resp.Relativities = nil
	resp.Diagnostics = nil
	resp.GeneratedCode = ""
	resp.Summary = ""
	return resp
}
