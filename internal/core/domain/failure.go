package domain

import (
	"errors"
	"fmt"
)

// FailureKind is the closed taxonomy of fit failures. Every error crossing
// the engine boundary is mapped to exactly one kind.
type FailureKind string

const (
	FailureDidNotConverge   FailureKind = "did_not_converge"
	FailureInvalidDesign    FailureKind = "invalid_design"
	FailureEstimationFailed FailureKind = "estimation_failed"
	FailureEncodingFailed   FailureKind = "encoding_failed"
	FailureSpecInvalid      FailureKind = "spec_invalid"
	FailureArtifactFailed   FailureKind = "artifact_failed"
	FailureUnclassified     FailureKind = "unclassified"
)

var failureSuggestions = map[FailureKind]string{
	FailureDidNotConverge:   "Increase the iteration limit, simplify the model, or try a different link function.",
	FailureInvalidDesign:    "Remove collinear or constant predictors and check that every referenced column exists.",
	FailureEstimationFailed: "Check the response for separation or zero variance, and consider regularization.",
	FailureEncodingFailed:   "Check derived-feature expressions and encoding settings for the listed term.",
	FailureSpecInvalid:      "Review the model specification; a field combination is inconsistent.",
	FailureArtifactFailed:   "The fit succeeded but its results could not be saved. Retry the submission.",
	FailureUnclassified:     "Retry the fit; if the failure persists, inspect the server logs.",
}

// Suggestion returns the fixed remediation text surfaced alongside the raw
// failure message.
func (k FailureKind) Suggestion() string {
	if s, ok := failureSuggestions[k]; ok {
		return s
	}
	return failureSuggestions[FailureUnclassified]
}

func (k FailureKind) Valid() bool {
	_, ok := failureSuggestions[k]
	return ok
}

// FitError is a classified failure raised by the engine adapter.
type FitError struct {
	Kind    FailureKind
	Message string
}

func (e *FitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ClassifyFailure maps any error from the engine boundary onto the taxonomy.
// Unrecognized errors become FailureUnclassified rather than escaping.
func ClassifyFailure(err error) (FailureKind, string) {
	var fe *FitError
	if errors.As(err, &fe) {
		kind := fe.Kind
		if !kind.Valid() {
			kind = FailureUnclassified
		}
		return kind, fe.Message
	}
	return FailureUnclassified, err.Error()
}
