package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"atelier-service/internal/core/domain"
	"atelier-service/internal/core/progress"
	ports "atelier-service/internal/core/ports/output"
)

// FitOrchestrator drives the job state machine
// pending -> running -> {completed | failed}. Submissions return as soon as
// the pending record exists; the engine runs on its own goroutine so a long
// fit never stalls request handling. Every background task is tracked and
// always resolves its record to a terminal status, panics included.
type FitOrchestrator struct {
	attempts ports.ModelAttemptRepository
	datasets ports.DatasetRepository
	engine   ports.FitEngine
	scripts  ports.ScriptRenderer
	hub      *progress.Hub

	// fitCeiling bounds engine wall-clock time. Zero means unbounded;
	// cancellation of individual fits is deliberately not supported.
	fitCeiling time.Duration

	wg sync.WaitGroup
}

func NewFitOrchestrator(
	attempts ports.ModelAttemptRepository,
	datasets ports.DatasetRepository,
	engine ports.FitEngine,
	scripts ports.ScriptRenderer,
	hub *progress.Hub,
	fitCeiling time.Duration,
) *FitOrchestrator {
	return &FitOrchestrator{
		attempts:   attempts,
		datasets:   datasets,
		engine:     engine,
		scripts:    scripts,
		hub:        hub,
		fitCeiling: fitCeiling,
	}
}

func (o *FitOrchestrator) Hub() *progress.Hub {
	return o.hub
}

// Submit allocates the next version for the project, creates the pending
// record and schedules the fit. It returns before any engine work begins,
// however long the fit will take.
func (o *FitOrchestrator) Submit(ctx context.Context, projectID, datasetID uuid.UUID, spec domain.FitSpec) (*domain.ModelAttempt, error) {
	if len(spec.Terms) == 0 {
		return nil, domain.ErrNoTerms
	}
	if spec.Response == "" {
		return nil, domain.ErrNoResponse
	}

	dataset, err := o.datasets.GetByID(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	attempt := &domain.ModelAttempt{
		ID:        uuid.New(),
		ProjectID: projectID,
		DatasetID: datasetID,
		CreatedAt: time.Now().UTC(),
		Spec:      spec,
		Status:    domain.StatusPending,
	}
	if err := o.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"job_id":     attempt.ID,
		"project_id": projectID,
		"version":    attempt.Version,
		"n_terms":    len(spec.Terms),
	}).Info("fit submitted")

	o.wg.Add(1)
	go o.run(attempt, dataset.FilePath)

	return attempt, nil
}

// Wait blocks until all in-flight fits have reached a terminal state.
func (o *FitOrchestrator) Wait() {
	o.wg.Wait()
}

// run executes one job to a terminal state. It never uses the submitting
// request's context: the job outlives the request.
func (o *FitOrchestrator) run(attempt *domain.ModelAttempt, datasetPath string) {
	defer o.wg.Done()

	jobID := attempt.ID
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.WithField("job_id", jobID).Errorf("fit task panicked: %v", r)
			o.fail(attempt, domain.FailureUnclassified,
				fmt.Sprintf("fit task panicked: %v", r), time.Since(start).Milliseconds())
		}
	}()

	ctx := context.Background()
	if o.fitCeiling > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.fitCeiling)
		defer cancel()
	}

	// The running transition happens before any engine work so a record
	// queried between submission and the first event reads consistently.
	if err := o.attempts.MarkRunning(context.Background(), jobID); err != nil {
		log.WithError(err).WithField("job_id", jobID).Error("mark running failed")
		o.fail(attempt, domain.FailureUnclassified,
			fmt.Sprintf("could not start fit: %v", err), time.Since(start).Milliseconds())
		return
	}
	o.hub.Publish(domain.StartedEvent(jobID))

	onProgress := func(p domain.FitProgress) {
		o.hub.Publish(domain.IterationEvent(jobID, p))
	}

	result, err := o.engine.Fit(ctx, datasetPath, attempt.Spec, onProgress)
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			o.fail(attempt, domain.FailureUnclassified,
				fmt.Sprintf("fit exceeded the configured ceiling of %s", o.fitCeiling), durationMs)
			return
		}
		kind, message := domain.ClassifyFailure(err)
		o.fail(attempt, kind, message, durationMs)
		return
	}

	code := o.scripts.Render(attempt.Spec)
	if err := o.attempts.Complete(context.Background(), jobID, result, code, durationMs); err != nil {
		log.WithError(err).WithField("job_id", jobID).Error("persist fit result failed")
		o.fail(attempt, domain.FailureArtifactFailed,
			fmt.Sprintf("fit succeeded but the result could not be saved: %v", err), durationMs)
		return
	}

	log.WithFields(log.Fields{
		"job_id":      jobID,
		"version":     attempt.Version,
		"duration_ms": durationMs,
		"converged":   result.Metrics.Converged,
		"iterations":  result.Metrics.Iterations,
	}).Info("fit completed")

	o.hub.Publish(domain.CompletedEvent(jobID, durationMs, result.Metrics))
}

// fail writes the failure fields and publishes the terminal event. The
// record write happens first so observers reacting to the event always see
// a terminal record.
func (o *FitOrchestrator) fail(attempt *domain.ModelAttempt, kind domain.FailureKind, message string, durationMs int64) {
	jobID := attempt.ID

	log.WithFields(log.Fields{
		"job_id":       jobID,
		"version":      attempt.Version,
		"failure_kind": kind,
		"duration_ms":  durationMs,
	}).Warn("fit failed: ", message)

	if err := o.attempts.Fail(context.Background(), jobID, kind, message, kind.Suggestion(), durationMs); err != nil {
		log.WithError(err).WithField("job_id", jobID).Error("persist fit failure failed")
	}
	o.hub.Publish(domain.FailedEvent(jobID, kind, message))
}
