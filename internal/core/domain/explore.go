package domain

import "encoding/json"

// ExploreSpec drives the engine's pre-fit data exploration: the same frame
// setup as a fit, but with no predictor terms.
type ExploreSpec struct {
	Response string     `json:"response"`
	Family   string     `json:"family"`
	Link     string     `json:"link,omitempty"`
	Offset   string     `json:"offset,omitempty"`
	Weights  string     `json:"weights,omitempty"`
	Split    *SplitSpec `json:"split,omitempty"`
}

// NullModelStats are the metrics of the intercept-only model the engine fits
// during exploration. They seed the project's baseline record.
type NullModelStats struct {
	Deviance    *float64 `json:"deviance"`
	AIC         *float64 `json:"aic"`
	NObs        int      `json:"n_obs"`
	NValidation *int     `json:"n_validation,omitempty"`
	DurationMs  int64    `json:"duration_ms"`
}

// Exploration is the engine's pre-fit analysis of a dataset. Report is the
// engine's per-factor analysis document, passed through opaquely.
type Exploration struct {
	Report    json.RawMessage `json:"report"`
	NullModel *NullModelStats `json:"null_model,omitempty"`
}
