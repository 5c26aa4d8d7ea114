package domain

import "errors"

// ============================================================================
// Project Errors
// ============================================================================

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidProjectName = errors.New("project name is required")
)

// ============================================================================
// Dataset Errors
// ============================================================================

var (
	ErrDatasetNotFound   = errors.New("dataset not found")
	ErrUnsupportedFormat = errors.New("unsupported dataset format (use csv)")
	ErrColumnNotFound    = errors.New("column not found in dataset")
	ErrDatasetUnreadable = errors.New("dataset file could not be read")
	ErrMissingFilename   = errors.New("no filename provided")
)

// ============================================================================
// Fit Errors
// ============================================================================

var (
	ErrAttemptNotFound = errors.New("model attempt not found")
	ErrNoTerms         = errors.New("fit specification has no predictor terms")
	ErrNoResponse      = errors.New("fit specification has no response column")
)

// ============================================================================
// Exploration Errors
// ============================================================================

var ErrExplorationFailed = errors.New("data exploration failed")
