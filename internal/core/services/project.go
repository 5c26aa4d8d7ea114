package services

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"atelier-service/internal/core/domain"
	ports "atelier-service/internal/core/ports/output"
)

type ProjectService struct {
	repo     ports.ProjectRepository
	datasets ports.DatasetRepository
}

func NewProjectService(repo ports.ProjectRepository, datasets ports.DatasetRepository) *ProjectService {
	return &ProjectService{repo: repo, datasets: datasets}
}

func (s *ProjectService) Create(ctx context.Context, name, description string, config *domain.ProjectConfig) (*domain.Project, error) {
	if name == "" {
		return nil, domain.ErrInvalidProjectName
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        name,
		Description: description,
		Config:      config,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.repo.List(ctx)
}

func (s *ProjectService) UpdateConfig(ctx context.Context, id uuid.UUID, config *domain.ProjectConfig) error {
	return s.repo.UpdateConfig(ctx, id, config)
}

// Delete removes the project, its attempts and datasets, then the dataset
// files on disk. File removal is best-effort: the records are already gone.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	datasets, err := s.datasets.ListByProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	for _, ds := range datasets {
		if err := os.Remove(ds.FilePath); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("path", ds.FilePath).Warn("dataset file removal failed")
		}
	}
	return nil
}
