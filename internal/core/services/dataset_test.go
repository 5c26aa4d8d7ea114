package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"atelier-service/internal/core/domain"
	"atelier-service/internal/testutil"
)

func TestDatasetService_Upload(t *testing.T) {
	repo := new(testutil.MockDatasetRepo)
	projects := new(testutil.MockProjectRepo)
	describer := new(testutil.MockDescriber)
	dir := t.TempDir()
	svc := NewDatasetService(repo, projects, describer, dir)

	projectID := uuid.New()
	projects.On("GetByID", mock.Anything, projectID).Return(&domain.Project{ID: projectID}, nil)
	describer.On("Describe", mock.Anything, mock.AnythingOfType("string")).Return(&domain.TableSummary{
		NRows: 2,
		Columns: []domain.ColumnStat{
			{Name: "claim_count", DType: "int64", IsNumeric: true, IsCategorical: true, NUnique: 2},
			{Name: "region", DType: "str", IsCategorical: true, NUnique: 2},
		},
	}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Dataset")).Return(nil)

	content := strings.NewReader("claim_count,region\n0,north\n1,south\n")
	dataset, err := svc.Upload(context.Background(), projectID, "policies.csv", content)
	require.NoError(t, err)

	assert.Equal(t, "policies.csv", dataset.Name)
	assert.Equal(t, "csv", dataset.FileFormat)
	assert.Equal(t, 2, dataset.NRows)
	assert.Equal(t, 2, dataset.NCols)

	// The file landed in the upload dir.
	matches, _ := filepath.Glob(filepath.Join(dir, "*.csv"))
	assert.Len(t, matches, 1)
}

func TestDatasetService_Upload_RejectsUnsupportedFormat(t *testing.T) {
	svc := NewDatasetService(new(testutil.MockDatasetRepo), new(testutil.MockProjectRepo), new(testutil.MockDescriber), t.TempDir())

	_, err := svc.Upload(context.Background(), uuid.New(), "policies.xlsx", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestDatasetService_Upload_RequiresFilename(t *testing.T) {
	svc := NewDatasetService(new(testutil.MockDatasetRepo), new(testutil.MockProjectRepo), new(testutil.MockDescriber), t.TempDir())

	_, err := svc.Upload(context.Background(), uuid.New(), "", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrMissingFilename)
}

func TestDatasetService_Upload_CleansUpOnDescribeFailure(t *testing.T) {
	repo := new(testutil.MockDatasetRepo)
	projects := new(testutil.MockProjectRepo)
	describer := new(testutil.MockDescriber)
	dir := t.TempDir()
	svc := NewDatasetService(repo, projects, describer, dir)

	projectID := uuid.New()
	projects.On("GetByID", mock.Anything, projectID).Return(&domain.Project{ID: projectID}, nil)
	describer.On("Describe", mock.Anything, mock.AnythingOfType("string")).Return(nil, domain.ErrDatasetUnreadable)

	_, err := svc.Upload(context.Background(), projectID, "bad.csv", strings.NewReader("not,a\nvalid"))
	assert.ErrorIs(t, err, domain.ErrDatasetUnreadable)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "rejected upload should not leave a file behind")
}

func TestDatasetService_ColumnValues(t *testing.T) {
	repo := new(testutil.MockDatasetRepo)
	describer := new(testutil.MockDescriber)
	svc := NewDatasetService(repo, new(testutil.MockProjectRepo), describer, t.TempDir())

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.Dataset{ID: id, FilePath: "/data/x.csv"}, nil)
	describer.On("ColumnValues", mock.Anything, "/data/x.csv", "region", 200).Return([]string{"north", "south"}, nil)

	values, err := svc.ColumnValues(context.Background(), id, "region")
	assert.NoError(t, err)
	assert.Equal(t, []string{"north", "south"}, values)
}
