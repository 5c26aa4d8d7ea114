package rustystats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"atelier-service/internal/core/domain"
)

type exploreRequest struct {
	DatasetPath        string            `json:"dataset_path"`
	Response           string            `json:"response"`
	Family             string            `json:"family"`
	Link               string            `json:"link,omitempty"`
	Offset             string            `json:"offset,omitempty"`
	Weights            string            `json:"weights,omitempty"`
	CategoricalFactors []string          `json:"categorical_factors,omitempty"`
	ContinuousFactors  []string          `json:"continuous_factors,omitempty"`
	Split              *domain.SplitSpec `json:"split,omitempty"`
}

// Explore runs the engine's explore mode: per-factor analysis over the
// training rows plus an intercept-only baseline fit, returned as one JSON
// document on stdout. Failures use the same error document as fit.
func (c *Client) Explore(ctx context.Context, datasetPath string, spec domain.ExploreSpec, categorical, continuous []string) (*domain.Exploration, error) {
	req := exploreRequest{
		DatasetPath:        datasetPath,
		Response:           spec.Response,
		Family:             spec.Family,
		Link:               spec.Link,
		Offset:             spec.Offset,
		Weights:            spec.Weights,
		CategoricalFactors: categorical,
		ContinuousFactors:  continuous,
		Split:              spec.Split,
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, &domain.FitError{Kind: domain.FailureSpecInvalid, Message: fmt.Sprintf("encode explore request: %v", err)}
	}

	cmd := exec.CommandContext(ctx, c.binary, "explore")
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, classifyExit(err, stdout.Bytes(), lastLines(stderr.String(), stderrTailLines))
	}

	var exploration domain.Exploration
	if err := json.Unmarshal(stdout.Bytes(), &exploration); err != nil {
		return nil, &domain.FitError{
			Kind:    domain.FailureUnclassified,
			Message: fmt.Sprintf("decode explore output: %v", err),
		}
	}
	return &exploration, nil
}

func lastLines(s string, n int) []string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
