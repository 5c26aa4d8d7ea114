// Package rustystats wraps the external native GLM estimation engine. The
// engine is invoked as a subprocess: the fit request goes in as JSON on
// stdin, the result document comes back on stdout, and iteration progress
// (when the engine emits any) is scraped from stderr.
package rustystats

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"

	"atelier-service/internal/core/domain"
)

const stderrTailLines = 20

type Client struct {
	binary string
}

func NewClient(binary string) *Client {
	return &Client{binary: binary}
}

type fitRequest struct {
	DatasetPath string                    `json:"dataset_path"`
	Response    string                    `json:"response"`
	Family      string                    `json:"family"`
	Link        string                    `json:"link,omitempty"`
	Offset      string                    `json:"offset,omitempty"`
	Weights     string                    `json:"weights,omitempty"`
	Terms       map[string]map[string]any `json:"terms"`
	Split       *domain.SplitSpec         `json:"split,omitempty"`
}

type fitResponse struct {
	Metrics      domain.FitMetrics       `json:"metrics"`
	Coefficients []domain.CoefficientRow `json:"coef_table"`
	Relativities []domain.RelativityRow  `json:"relativities"`
	Diagnostics  json.RawMessage         `json:"diagnostics"`
	Artifact     []byte                  `json:"artifact"`
	Summary      string                  `json:"summary"`
}

type engineError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (c *Client) Fit(ctx context.Context, datasetPath string, spec domain.FitSpec, onProgress func(domain.FitProgress)) (*domain.FitResult, error) {
	req := fitRequest{
		DatasetPath: datasetPath,
		Response:    spec.Response,
		Family:      spec.Family,
		Link:        spec.Link,
		Offset:      spec.Offset,
		Weights:     spec.Weights,
		Terms:       TermsDict(spec.Terms),
		Split:       spec.Split,
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, &domain.FitError{Kind: domain.FailureSpecInvalid, Message: fmt.Sprintf("encode fit request: %v", err)}
	}

	cmd := exec.CommandContext(ctx, c.binary, "fit")
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &domain.FitError{Kind: domain.FailureUnclassified, Message: fmt.Sprintf("attach engine stderr: %v", err)}
	}

	if err := cmd.Start(); err != nil {
		return nil, &domain.FitError{Kind: domain.FailureUnclassified, Message: fmt.Sprintf("start engine: %v", err)}
	}

	// Progress scraping is best effort: lines that do not parse are kept as
	// diagnostic context and nothing more. A fit with zero parseable lines
	// is indistinguishable from an engine that emits no progress at all.
	var tail []string
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		if p, ok := ParseProgressLine(line); ok {
			if onProgress != nil {
				onProgress(p)
			}
			continue
		}
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Debug("engine stderr scan interrupted")
	}

	if err := cmd.Wait(); err != nil {
		return nil, classifyExit(err, stdout.Bytes(), tail)
	}

	var resp fitResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, &domain.FitError{
			Kind:    domain.FailureUnclassified,
			Message: fmt.Sprintf("decode engine output: %v", err),
		}
	}

	return &domain.FitResult{
		Metrics:      resp.Metrics,
		Coefficients: resp.Coefficients,
		Relativities: resp.Relativities,
		Diagnostics:  resp.Diagnostics,
		Artifact:     resp.Artifact,
		Summary:      resp.Summary,
	}, nil
}

// classifyExit maps a non-zero engine exit onto the failure taxonomy. The
// engine reports structured failures as {"error":{"kind":...,"message":...}}
// on stdout; anything else becomes unclassified with the stderr tail as
// context.
func classifyExit(waitErr error, stdout []byte, tail []string) error {
	var doc struct {
		Error *engineError `json:"error"`
	}
	if err := json.Unmarshal(stdout, &doc); err == nil && doc.Error != nil {
		kind := domain.FailureKind(doc.Error.Kind)
		if !kind.Valid() {
			kind = domain.FailureUnclassified
		}
		return &domain.FitError{Kind: kind, Message: doc.Error.Message}
	}

	message := fmt.Sprintf("engine exited: %v", waitErr)
	if len(tail) > 0 {
		message = fmt.Sprintf("%s: %s", message, strings.Join(tail, " | "))
	}
	return &domain.FitError{Kind: domain.FailureUnclassified, Message: message}
}
