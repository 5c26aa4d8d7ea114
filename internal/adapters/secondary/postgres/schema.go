package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id            UUID PRIMARY KEY,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		config        JSONB,
		version_count INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS datasets (
		id          UUID PRIMARY KEY,
		project_id  UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		file_path   TEXT NOT NULL,
		file_format TEXT NOT NULL,
		n_rows      INT NOT NULL DEFAULT 0,
		n_cols      INT NOT NULL DEFAULT 0,
		columns     JSONB,
		uploaded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS model_attempts (
		id                 UUID PRIMARY KEY,
		project_id         UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		dataset_id         UUID NOT NULL,
		version            INT NOT NULL,
		name               TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL,
		spec               JSONB NOT NULL,
		status             TEXT NOT NULL DEFAULT 'pending',
		fit_duration_ms    BIGINT,
		metrics            JSONB,
		coefficients       JSONB,
		relativities       JSONB,
		diagnostics        JSONB,
		artifact           BYTEA,
		summary            TEXT NOT NULL DEFAULT '',
		generated_code     TEXT NOT NULL DEFAULT '',
		failure_kind       TEXT NOT NULL DEFAULT '',
		failure_message    TEXT NOT NULL DEFAULT '',
		failure_suggestion TEXT NOT NULL DEFAULT '',
		UNIQUE (project_id, version)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_model_attempts_project_version
		ON model_attempts (project_id, version DESC)`,
}

// EnsureSchema creates the tables on startup. The service owns its schema;
// there is no external migration tool in the deployment.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
