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

type attemptRepo struct {
	pool *pgxpool.Pool
}

func NewModelAttemptRepository(pool *pgxpool.Pool) ports.ModelAttemptRepository {
	return &attemptRepo{pool: pool}
}

// Create bumps the project's version counter and inserts the record in one
// transaction. The row lock taken by UPDATE serializes concurrent
// submissions for the same project, so the sequence is gapless from 1 with
// no duplicates; a failed insert rolls the counter back with it.
func (r *attemptRepo) Create(ctx context.Context, attempt *domain.ModelAttempt) error {
	specJSON, err := json.Marshal(attempt.Spec)
	if err != nil {
		return fmt.Errorf("marshal fit spec: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin attempt insert: %w", err)
	}
	defer tx.Rollback(ctx)

	allocate := `
		UPDATE projects
		SET version_count = version_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING version_count
	`
	var version int
	err = tx.QueryRow(ctx, allocate, attempt.ProjectID).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProjectNotFound
		}
		return fmt.Errorf("allocate version: %w", err)
	}
	attempt.Version = version
	if attempt.Name == "" {
		attempt.Name = domain.VersionName(version)
	}

	insert := `
		INSERT INTO model_attempts (id, project_id, dataset_id, version, name, created_at, spec, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, insert,
		attempt.ID, attempt.ProjectID, attempt.DatasetID,
		attempt.Version, attempt.Name, attempt.CreatedAt,
		specJSON, string(attempt.Status),
	)
	if err != nil {
		return fmt.Errorf("create model attempt: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit attempt insert: %w", err)
	}
	return nil
}

func (r *attemptRepo) MarkRunning(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE model_attempts SET status = 'running' WHERE id = $1 AND status = 'pending'`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark attempt running: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAttemptNotFound
	}
	return nil
}

// Complete writes every result field and the terminal status in one atomic
// update; a reader never observes a completed record with partial results.
func (r *attemptRepo) Complete(ctx context.Context, id uuid.UUID, result *domain.FitResult, generatedCode string, durationMs int64) error {
	metricsJSON, err := json.Marshal(result.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	coefJSON, err := json.Marshal(result.Coefficients)
	if err != nil {
		return fmt.Errorf("marshal coefficients: %w", err)
	}
	relJSON, err := json.Marshal(result.Relativities)
	if err != nil {
		return fmt.Errorf("marshal relativities: %w", err)
	}

	query := `
		UPDATE model_attempts
		SET status = 'completed', fit_duration_ms = $1, metrics = $2,
			coefficients = $3, relativities = $4, diagnostics = $5,
			artifact = $6, summary = $7, generated_code = $8
		WHERE id = $9 AND status = 'running'
	`
	res, err := r.pool.Exec(ctx, query,
		durationMs, metricsJSON, coefJSON, relJSON,
		[]byte(result.Diagnostics), result.Artifact, result.Summary, generatedCode, id,
	)
	if err != nil {
		return fmt.Errorf("complete model attempt: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrAttemptNotFound
	}
	return nil
}

func (r *attemptRepo) Fail(ctx context.Context, id uuid.UUID, kind domain.FailureKind, message, suggestion string, durationMs int64) error {
	query := `
		UPDATE model_attempts
		SET status = 'failed', fit_duration_ms = $1,
			failure_kind = $2, failure_message = $3, failure_suggestion = $4
		WHERE id = $5 AND status IN ('pending', 'running')
	`
	res, err := r.pool.Exec(ctx, query, durationMs, string(kind), message, suggestion, id)
	if err != nil {
		return fmt.Errorf("fail model attempt: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrAttemptNotFound
	}
	return nil
}

const attemptColumns = `
	id, project_id, dataset_id, version, name, created_at, spec, status,
	fit_duration_ms, metrics, coefficients, relativities, diagnostics,
	artifact, summary, generated_code,
	failure_kind, failure_message, failure_suggestion
`

func (r *attemptRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelAttempt, error) {
	query := fmt.Sprintf(`SELECT %s FROM model_attempts WHERE id = $1`, attemptColumns)
	attempt, err := scanAttempt(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get model attempt by id: %w", err)
	}
	return attempt, nil
}

func (r *attemptRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ModelAttempt, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM model_attempts
		WHERE project_id = $1
		ORDER BY version DESC
	`, attemptColumns)

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list model attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*domain.ModelAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model attempt row: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model attempt rows: %w", err)
	}
	return attempts, nil
}

func scanAttempt(row pgx.Row) (*domain.ModelAttempt, error) {
	attempt := &domain.ModelAttempt{}
	var (
		specJSON, metricsJSON, coefJSON, relJSON, diagJSON []byte
		status, failureKind                                string
	)

	err := row.Scan(
		&attempt.ID, &attempt.ProjectID, &attempt.DatasetID,
		&attempt.Version, &attempt.Name, &attempt.CreatedAt,
		&specJSON, &status,
		&attempt.FitDurationMs, &metricsJSON, &coefJSON, &relJSON, &diagJSON,
		&attempt.Artifact, &attempt.Summary, &attempt.GeneratedCode,
		&failureKind, &attempt.FailureMessage, &attempt.FailureSuggestion,
	)
	if err != nil {
		return nil, err
	}

	attempt.Status = domain.AttemptStatus(status)
	attempt.FailureKind = domain.FailureKind(failureKind)

	if err := json.Unmarshal(specJSON, &attempt.Spec); err != nil {
		return nil, fmt.Errorf("unmarshal fit spec: %w", err)
	}
	if len(metricsJSON) > 0 {
		if err := json.Unmarshal(metricsJSON, &attempt.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics: %w", err)
		}
	}
	if len(coefJSON) > 0 {
		if err := json.Unmarshal(coefJSON, &attempt.Coefficients); err != nil {
			return nil, fmt.Errorf("unmarshal coefficients: %w", err)
		}
	}
	if len(relJSON) > 0 {
		if err := json.Unmarshal(relJSON, &attempt.Relativities); err != nil {
			return nil, fmt.Errorf("unmarshal relativities: %w", err)
		}
	}
	attempt.Diagnostics = diagJSON
	return attempt, nil
}
