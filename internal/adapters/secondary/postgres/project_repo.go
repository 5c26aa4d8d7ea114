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

type projectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ports.ProjectRepository {
	return &projectRepo{pool: pool}
}

func (r *projectRepo) Create(ctx context.Context, project *domain.Project) error {
	configJSON, err := marshalConfig(project.Config)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (id, created_at, updated_at, name, description, config, version_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		project.ID, project.CreatedAt, project.UpdatedAt,
		project.Name, project.Description, configJSON, project.VersionCount,
	)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `
		SELECT id, created_at, updated_at, name, description, config, version_count
		FROM projects
		WHERE id = $1
	`
	project, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project by id: %w", err)
	}
	return project, nil
}

func (r *projectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `
		SELECT id, created_at, updated_at, name, description, config, version_count
		FROM projects
		ORDER BY updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project rows: %w", err)
	}
	return projects, nil
}

func (r *projectRepo) UpdateConfig(ctx context.Context, id uuid.UUID, config *domain.ProjectConfig) error {
	configJSON, err := marshalConfig(config)
	if err != nil {
		return err
	}

	query := `UPDATE projects SET config = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.pool.Exec(ctx, query, configJSON, id)
	if err != nil {
		return fmt.Errorf("update project config: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Datasets and attempts go with the project via ON DELETE CASCADE.
	result, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func marshalConfig(config *domain.ProjectConfig) ([]byte, error) {
	if config == nil {
		return nil, nil
	}
	data, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal project config: %w", err)
	}
	return data, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	project := &domain.Project{}
	var configJSON []byte

	err := row.Scan(
		&project.ID, &project.CreatedAt, &project.UpdatedAt,
		&project.Name, &project.Description, &configJSON, &project.VersionCount,
	)
	if err != nil {
		return nil, err
	}

	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &project.Config); err != nil {
			return nil, fmt.Errorf("unmarshal project config: %w", err)
		}
	}
	return project, nil
}
