package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"atelier-service/internal/core/domain"
	"atelier-service/internal/testutil"
)

func TestProjectService_Create(t *testing.T) {
	repo := new(testutil.MockProjectRepo)
	datasets := new(testutil.MockDatasetRepo)
	svc := NewProjectService(repo, datasets)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Project")).Return(nil)

	project, err := svc.Create(context.Background(), "motor-freq", "frequency model", nil)
	assert.NoError(t, err)
	assert.Equal(t, "motor-freq", project.Name)
	assert.NotEqual(t, uuid.Nil, project.ID)
}

func TestProjectService_Create_RequiresName(t *testing.T) {
	svc := NewProjectService(new(testutil.MockProjectRepo), new(testutil.MockDatasetRepo))

	_, err := svc.Create(context.Background(), "", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidProjectName)
}

func TestProjectService_Delete_CascadesToDatasetFiles(t *testing.T) {
	repo := new(testutil.MockProjectRepo)
	datasets := new(testutil.MockDatasetRepo)
	svc := NewProjectService(repo, datasets)

	projectID := uuid.New()
	datasets.On("ListByProject", mock.Anything, projectID).Return([]*domain.Dataset{
		{ID: uuid.New(), FilePath: "/nonexistent/file.csv"},
	}, nil)
	repo.On("Delete", mock.Anything, projectID).Return(nil)

	// Missing files are tolerated; records are the source of truth.
	err := svc.Delete(context.Background(), projectID)
	assert.NoError(t, err)
	repo.AssertCalled(t, "Delete", mock.Anything, projectID)
}

func TestProjectService_Delete_NotFound(t *testing.T) {
	repo := new(testutil.MockProjectRepo)
	datasets := new(testutil.MockDatasetRepo)
	svc := NewProjectService(repo, datasets)

	projectID := uuid.New()
	datasets.On("ListByProject", mock.Anything, projectID).Return([]*domain.Dataset{}, nil)
	repo.On("Delete", mock.Anything, projectID).Return(domain.ErrProjectNotFound)

	err := svc.Delete(context.Background(), projectID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestModelAttemptService_History(t *testing.T) {
	repo := new(testutil.MockAttemptRepo)
	svc := NewModelAttemptService(repo)

	projectID := uuid.New()
	attempts := []*domain.ModelAttempt{
		{ID: uuid.New(), Version: 2, Status: domain.StatusCompleted},
		{ID: uuid.New(), Version: 1, Status: domain.StatusFailed},
	}
	repo.On("ListByProject", mock.Anything, projectID).Return(attempts, nil)

	got, err := svc.History(context.Background(), projectID)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Greater(t, got[0].Version, got[1].Version)
}
