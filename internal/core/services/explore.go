package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"atelier-service/internal/core/domain"
	ports "atelier-service/internal/core/ports/output"
)

// ExploreService runs the engine's pre-fit data exploration once a model
// frame is confirmed, and seeds a fresh project's history with the
// intercept-only null model as baseline v1.
type ExploreService struct {
	datasets ports.DatasetRepository
	attempts ports.ModelAttemptRepository
	explorer ports.DataExplorer
}

func NewExploreService(datasets ports.DatasetRepository, attempts ports.ModelAttemptRepository, explorer ports.DataExplorer) *ExploreService {
	return &ExploreService{datasets: datasets, attempts: attempts, explorer: explorer}
}

// Explore classifies the dataset's columns into model factors from the
// stored column statistics, runs the engine's exploration, and saves the
// baseline when the project has no fit history yet.
func (s *ExploreService) Explore(ctx context.Context, projectID, datasetID uuid.UUID, spec domain.ExploreSpec) (*domain.Exploration, error) {
	if spec.Response == "" {
		return nil, domain.ErrNoResponse
	}

	dataset, err := s.datasets.GetByID(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	reserved := map[string]bool{spec.Response: true}
	if spec.Offset != "" {
		reserved[spec.Offset] = true
	}
	if spec.Weights != "" {
		reserved[spec.Weights] = true
	}
	if spec.Split != nil {
		reserved[spec.Split.Column] = true
	}
	categorical, continuous := domain.ClassifyFactors(dataset.Columns, reserved)

	start := time.Now()
	exploration, err := s.explorer.Explore(ctx, dataset.FilePath, spec, categorical, continuous)
	if err != nil {
		_, message := domain.ClassifyFailure(err)
		return nil, fmt.Errorf("%w: %s", domain.ErrExplorationFailed, message)
	}

	log.WithFields(log.Fields{
		"project_id":    projectID,
		"dataset_id":    datasetID,
		"n_categorical": len(categorical),
		"n_continuous":  len(continuous),
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Info("exploration completed")

	s.saveBaseline(ctx, projectID, datasetID, spec, exploration)
	return exploration, nil
}

// saveBaseline records the null model as v1 for a project with no versions.
// Best effort: a failure here never fails the exploration.
func (s *ExploreService) saveBaseline(ctx context.Context, projectID, datasetID uuid.UUID, spec domain.ExploreSpec, exploration *domain.Exploration) {
	nm := exploration.NullModel
	if nm == nil {
		return
	}

	history, err := s.attempts.ListByProject(ctx, projectID)
	if err != nil {
		log.WithError(err).WithField("project_id", projectID).Warn("baseline history check failed")
		return
	}
	if len(history) > 0 {
		return
	}

	attempt := &domain.ModelAttempt{
		ID:        uuid.New(),
		ProjectID: projectID,
		DatasetID: datasetID,
		CreatedAt: time.Now().UTC(),
		Spec: domain.FitSpec{
			Response: spec.Response,
			Family:   spec.Family,
			Link:     spec.Link,
			Offset:   spec.Offset,
			Weights:  spec.Weights,
			Terms:    []domain.TermSpec{},
			Split:    spec.Split,
		},
		Status: domain.StatusPending,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		log.WithError(err).WithField("project_id", projectID).Warn("baseline record creation failed")
		return
	}
	if err := s.attempts.MarkRunning(ctx, attempt.ID); err != nil {
		log.WithError(err).WithField("job_id", attempt.ID).Warn("baseline transition failed")
		return
	}

	result := &domain.FitResult{
		Metrics: domain.FitMetrics{
			Deviance:     nm.Deviance,
			NullDeviance: nm.Deviance,
			AIC:          nm.AIC,
			Converged:    true,
			NObs:         nm.NObs,
			NValidation:  nm.NValidation,
			NParams:      1,
		},
		Diagnostics: exploration.Report,
		Summary:     "Null model (intercept only)",
	}
	if err := s.attempts.Complete(ctx, attempt.ID, result, "", nm.DurationMs); err != nil {
		log.WithError(err).WithField("job_id", attempt.ID).Warn("baseline result write failed")
		return
	}

	log.WithFields(log.Fields{
		"project_id": projectID,
		"job_id":     attempt.ID,
		"version":    attempt.Version,
	}).Info("saved null model as baseline")
}
