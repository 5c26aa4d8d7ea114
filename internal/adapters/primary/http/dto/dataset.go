package dto

import (
	"time"

	"github.com/google/uuid"

	"atelier-service/internal/core/domain"
)

type DatasetResponse struct {
	ID         uuid.UUID           `json:"id"`
	ProjectID  uuid.UUID           `json:"project_id"`
	Name       string              `json:"name"`
	FileFormat string              `json:"file_format"`
	NRows      int                 `json:"n_rows"`
	NCols      int                 `json:"n_cols"`
	Columns    []domain.ColumnStat `json:"columns"`
	UploadedAt string              `json:"uploaded_at"`
}

type ListDatasetsResponse struct {
	Items []DatasetResponse `json:"items"`
	Total int               `json:"total"`
}

type ColumnValuesResponse struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

func ToDatasetResponse(d *domain.Dataset) DatasetResponse {
	return DatasetResponse{
		ID:         d.ID,
		ProjectID:  d.ProjectID,
		Name:       d.Name,
		FileFormat: d.FileFormat,
		NRows:      d.NRows,
		NCols:      d.NCols,
		Columns:    d.Columns,
		UploadedAt: d.UploadedAt.Format(time.RFC3339),
	}
}
