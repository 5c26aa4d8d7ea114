package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AttemptStatus string

const (
	StatusPending   AttemptStatus = "pending"
	StatusRunning   AttemptStatus = "running"
	StatusCompleted AttemptStatus = "completed"
	StatusFailed    AttemptStatus = "failed"
)

// Terminal reports whether no further status transitions are possible.
func (s AttemptStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition enforces the job state machine:
// pending -> running -> {completed | failed}.
func (s AttemptStatus) CanTransition(to AttemptStatus) bool {
	switch s {
	case StatusPending:
		return to == StatusRunning
	case StatusRunning:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// TermSpec is one predictor term of a model specification.
// Type is one of: categorical, linear, bs, ns, target_encoding,
// frequency_encoding, expression.
type TermSpec struct {
	Column       string  `json:"column"`
	Type         string  `json:"type"`
	DF           *int    `json:"df,omitempty"`
	K            *int    `json:"k,omitempty"`
	Monotonicity *string `json:"monotonicity,omitempty"`
	Expr         *string `json:"expr,omitempty"`
}

// SplitSpec assigns dataset rows to train/validation/holdout by column value.
type SplitSpec struct {
	Column  string            `json:"column"`
	Mapping map[string]string `json:"mapping"`
}

// FitSpec is the full, frozen model specification of one attempt. It is a
// value type and is never mutated after the attempt is created.
type FitSpec struct {
	Response string     `json:"response"`
	Family   string     `json:"family"`
	Link     string     `json:"link,omitempty"`
	Offset   string     `json:"offset,omitempty"`
	Weights  string     `json:"weights,omitempty"`
	Terms    []TermSpec `json:"terms"`
	Split    *SplitSpec `json:"split,omitempty"`
}

type FitMetrics struct {
	Deviance     *float64 `json:"deviance"`
	NullDeviance *float64 `json:"null_deviance"`
	AIC          *float64 `json:"aic"`
	BIC          *float64 `json:"bic"`
	Converged    bool     `json:"converged"`
	Iterations   int      `json:"iterations"`
	NObs         int      `json:"n_obs"`
	NValidation  *int     `json:"n_validation,omitempty"`
	NParams      int      `json:"n_params"`
}

type CoefficientRow struct {
	Name   string   `json:"name"`
	Coef   *float64 `json:"coef"`
	SE     *float64 `json:"se"`
	Z      *float64 `json:"z"`
	PValue *float64 `json:"pvalue"`
}

// RelativityRow is one level of a fitted factor expressed as a multiplicative
// relativity against the base level.
type RelativityRow struct {
	Term       string  `json:"term"`
	Level      string  `json:"level"`
	Relativity float64 `json:"relativity"`
}

// FitResult is what the native engine returns on success.
type FitResult struct {
	Metrics      FitMetrics
	Coefficients []CoefficientRow
	Relativities []RelativityRow
	Diagnostics  json.RawMessage
	Artifact     []byte
	Summary      string
}

// FitProgress is one incremental signal scraped from the engine, when the
// engine exposes any. Absence of progress means "working, no ETA".
type FitProgress struct {
	Iteration       int
	MaxIterations   int
	Objective       float64
	ObjectiveChange float64
}

// VersionName is the default display name of an attempt.
func VersionName(version int) string {
	return fmt.Sprintf("v%d", version)
}

// ModelAttempt is one fit job. Immutable once terminal; exactly one of the
// result fields and failure fields is populated in a terminal record.
type ModelAttempt struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	DatasetID uuid.UUID `json:"dataset_id"`
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Spec   FitSpec       `json:"spec"`
	Status AttemptStatus `json:"status"`

	FitDurationMs *int64 `json:"fit_duration_ms"`

	// Result fields, nil until completed.
	Metrics       *FitMetrics      `json:"metrics,omitempty"`
	Coefficients  []CoefficientRow `json:"coefficients,omitempty"`
	Relativities  []RelativityRow  `json:"relativities,omitempty"`
	Diagnostics   json.RawMessage  `json:"diagnostics,omitempty"`
	Artifact      []byte           `json:"-"`
	GeneratedCode string           `json:"generated_code,omitempty"`
	Summary       string           `json:"summary,omitempty"`

	// Failure fields, empty until failed.
	FailureKind       FailureKind `json:"failure_kind,omitempty"`
	FailureMessage    string      `json:"failure_message,omitempty"`
	FailureSuggestion string      `json:"failure_suggestion,omitempty"`
}
