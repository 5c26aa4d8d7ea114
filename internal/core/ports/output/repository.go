package ports

import (
	"context"

	"github.com/google/uuid"

	"atelier-service/internal/core/domain"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	UpdateConfig(ctx context.Context, id uuid.UUID, config *domain.ProjectConfig) error
	// Delete removes the project and cascades to its datasets and attempts.
	Delete(ctx context.Context, id uuid.UUID) error
}

type DatasetRepository interface {
	Create(ctx context.Context, dataset *domain.Dataset) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Dataset, error)
}

// ModelAttemptRepository is the Model Record Store. The orchestrator is the
// only writer of status, result and failure fields.
type ModelAttemptRepository interface {
	// Create allocates the project's next version and inserts the record in
	// one atomic step; on return attempt.Version and Name are populated.
	// Allocation is linearizable per project: concurrent submissions observe
	// a gapless, strictly increasing sequence starting at 1, and a failed
	// insert consumes no version.
	Create(ctx context.Context, attempt *domain.ModelAttempt) error
	MarkRunning(ctx context.Context, id uuid.UUID) error
	// Complete writes all result fields and status=completed in one update.
	Complete(ctx context.Context, id uuid.UUID, result *domain.FitResult, generatedCode string, durationMs int64) error
	// Fail writes all failure fields and status=failed in one update.
	Fail(ctx context.Context, id uuid.UUID, kind domain.FailureKind, message, suggestion string, durationMs int64) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelAttempt, error)
	// ListByProject returns attempts ordered newest version first.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ModelAttempt, error)
}
