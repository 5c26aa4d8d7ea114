package services

import (
	"context"

	"github.com/google/uuid"

	"atelier-service/internal/core/domain"
	ports "atelier-service/internal/core/ports/output"
)

// ModelAttemptService reads the versioned fit history. All writes go through
// the orchestrator.
type ModelAttemptService struct {
	repo ports.ModelAttemptRepository
}

func NewModelAttemptService(repo ports.ModelAttemptRepository) *ModelAttemptService {
	return &ModelAttemptService{repo: repo}
}

func (s *ModelAttemptService) Get(ctx context.Context, id uuid.UUID) (*domain.ModelAttempt, error) {
	return s.repo.GetByID(ctx, id)
}

// History returns all attempts for a project, newest version first.
func (s *ModelAttemptService) History(ctx context.Context, projectID uuid.UUID) ([]*domain.ModelAttempt, error) {
	return s.repo.ListByProject(ctx, projectID)
}
