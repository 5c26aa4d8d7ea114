package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"atelier-service/internal/core/domain"
	ports "atelier-service/internal/core/ports/output"
)

var supportedFormats = map[string]bool{"csv": true}

type DatasetService struct {
	repo      ports.DatasetRepository
	projects  ports.ProjectRepository
	describer ports.DatasetDescriber
	uploadDir string
}

func NewDatasetService(repo ports.DatasetRepository, projects ports.ProjectRepository, describer ports.DatasetDescriber, uploadDir string) *DatasetService {
	return &DatasetService{repo: repo, projects: projects, describer: describer, uploadDir: uploadDir}
}

// Upload stores the file, computes column statistics and persists the
// dataset record under the project.
func (s *DatasetService) Upload(ctx context.Context, projectID uuid.UUID, filename string, content io.Reader) (*domain.Dataset, error) {
	if filename == "" {
		return nil, domain.ErrMissingFilename
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !supportedFormats[ext] {
		return nil, domain.ErrUnsupportedFormat
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.New()
	dest := filepath.Join(s.uploadDir, fmt.Sprintf("%s.%s", id, ext))
	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("create dataset file: %w", err)
	}
	written, err := io.Copy(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return nil, fmt.Errorf("write dataset file: %w", err)
	}

	summary, err := s.describer.Describe(ctx, dest)
	if err != nil {
		os.Remove(dest)
		return nil, err
	}

	dataset := &domain.Dataset{
		ID:         id,
		ProjectID:  projectID,
		Name:       filename,
		FilePath:   dest,
		FileFormat: ext,
		NRows:      summary.NRows,
		NCols:      len(summary.Columns),
		Columns:    summary.Columns,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, dataset); err != nil {
		os.Remove(dest)
		return nil, err
	}

	log.WithFields(log.Fields{
		"dataset_id": id,
		"project_id": projectID,
		"filename":   filename,
		"bytes":      written,
		"n_rows":     summary.NRows,
		"n_cols":     len(summary.Columns),
	}).Info("dataset uploaded")

	return dataset, nil
}

func (s *DatasetService) Get(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DatasetService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Dataset, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

// ColumnValues returns up to 200 distinct values of one column, for split
// mapping and level pickers in the editor.
func (s *DatasetService) ColumnValues(ctx context.Context, id uuid.UUID, column string) ([]string, error) {
	dataset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.describer.ColumnValues(ctx, dataset.FilePath, column, 200)
}
