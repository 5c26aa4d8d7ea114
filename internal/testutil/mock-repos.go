package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"atelier-service/internal/core/domain"
)

// MockProjectRepo is a mock of ProjectRepository.
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectRepo) UpdateConfig(ctx context.Context, id uuid.UUID, config *domain.ProjectConfig) error {
	args := m.Called(ctx, id, config)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDatasetRepo is a mock of DatasetRepository.
type MockDatasetRepo struct {
	mock.Mock
}

func (m *MockDatasetRepo) Create(ctx context.Context, dataset *domain.Dataset) error {
	args := m.Called(ctx, dataset)
	return args.Error(0)
}

func (m *MockDatasetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockDatasetRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Dataset, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Dataset), args.Error(1)
}

// MockAttemptRepo is a mock of ModelAttemptRepository.
type MockAttemptRepo struct {
	mock.Mock
}

func (m *MockAttemptRepo) Create(ctx context.Context, attempt *domain.ModelAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepo) MarkRunning(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttemptRepo) Complete(ctx context.Context, id uuid.UUID, result *domain.FitResult, generatedCode string, durationMs int64) error {
	args := m.Called(ctx, id, result, generatedCode, durationMs)
	return args.Error(0)
}

func (m *MockAttemptRepo) Fail(ctx context.Context, id uuid.UUID, kind domain.FailureKind, message, suggestion string, durationMs int64) error {
	args := m.Called(ctx, id, kind, message, suggestion, durationMs)
	return args.Error(0)
}

func (m *MockAttemptRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelAttempt), args.Error(1)
}

func (m *MockAttemptRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ModelAttempt, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ModelAttempt), args.Error(1)
}

// MockExplorer is a mock of DataExplorer.
type MockExplorer struct {
	mock.Mock
}

func (m *MockExplorer) Explore(ctx context.Context, datasetPath string, spec domain.ExploreSpec, categorical, continuous []string) (*domain.Exploration, error) {
	args := m.Called(ctx, datasetPath, spec, categorical, continuous)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exploration), args.Error(1)
}

// MockDescriber is a mock of DatasetDescriber.
type MockDescriber struct {
	mock.Mock
}

func (m *MockDescriber) Describe(ctx context.Context, path string) (*domain.TableSummary, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TableSummary), args.Error(1)
}

func (m *MockDescriber) ColumnValues(ctx context.Context, path, column string, limit int) ([]string, error) {
	args := m.Called(ctx, path, column, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
