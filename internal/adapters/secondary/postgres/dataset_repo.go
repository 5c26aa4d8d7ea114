package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"atelier-service/internal/core/domain"
	ports "atelier-service/internal/core/ports/output"
)

type datasetRepo struct {
	pool *pgxpool.Pool
}

func NewDatasetRepository(pool *pgxpool.Pool) ports.DatasetRepository {
	return &datasetRepo{pool: pool}
}

func (r *datasetRepo) Create(ctx context.Context, dataset *domain.Dataset) error {
	columnsJSON, err := json.Marshal(dataset.Columns)
	if err != nil {
		return fmt.Errorf("marshal dataset columns: %w", err)
	}

	query := `
		INSERT INTO datasets (id, project_id, name, file_path, file_format, n_rows, n_cols, columns, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		dataset.ID, dataset.ProjectID, dataset.Name,
		dataset.FilePath, dataset.FileFormat,
		dataset.NRows, dataset.NCols, columnsJSON, dataset.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	return nil
}

func (r *datasetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	query := `
		SELECT id, project_id, name, file_path, file_format, n_rows, n_cols, columns, uploaded_at
		FROM datasets
		WHERE id = $1
	`
	dataset, err := scanDataset(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDatasetNotFound
		}
		return nil, fmt.Errorf("get dataset by id: %w", err)
	}
	return dataset, nil
}

func (r *datasetRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Dataset, error) {
	query := `
		SELECT id, project_id, name, file_path, file_format, n_rows, n_cols, columns, uploaded_at
		FROM datasets
		WHERE project_id = $1
		ORDER BY uploaded_at DESC
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []*domain.Dataset
	for rows.Next() {
		dataset, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		datasets = append(datasets, dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset rows: %w", err)
	}
	return datasets, nil
}

func scanDataset(row pgx.Row) (*domain.Dataset, error) {
	dataset := &domain.Dataset{}
	var columnsJSON []byte

	err := row.Scan(
		&dataset.ID, &dataset.ProjectID, &dataset.Name,
		&dataset.FilePath, &dataset.FileFormat,
		&dataset.NRows, &dataset.NCols, &columnsJSON, &dataset.UploadedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(columnsJSON) > 0 {
		if err := json.Unmarshal(columnsJSON, &dataset.Columns); err != nil {
			return nil, fmt.Errorf("unmarshal dataset columns: %w", err)
		}
	}
	return dataset, nil
}
