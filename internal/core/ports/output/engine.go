package ports

import (
	"context"

	"atelier-service/internal/core/domain"
)

// FitEngine wraps the external native estimation engine. Fit is synchronous
// and may run for seconds to minutes; callers are responsible for keeping it
// off the request path. onProgress may be nil and is invoked best-effort:
// engines that expose no incremental signal never call it.
type FitEngine interface {
	Fit(ctx context.Context, datasetPath string, spec domain.FitSpec, onProgress func(domain.FitProgress)) (*domain.FitResult, error)
}

// DataExplorer runs the engine's pre-fit analysis of a dataset: per-factor
// statistics plus an intercept-only baseline fit.
type DataExplorer interface {
	Explore(ctx context.Context, datasetPath string, spec domain.ExploreSpec, categorical, continuous []string) (*domain.Exploration, error)
}

// DatasetDescriber computes column statistics for an on-disk tabular file.
type DatasetDescriber interface {
	Describe(ctx context.Context, path string) (*domain.TableSummary, error)
	// ColumnValues returns up to limit distinct non-missing values, sorted.
	ColumnValues(ctx context.Context, path, column string, limit int) ([]string, error)
}

// ScriptRenderer turns a fit specification into a human-readable
// reproduction script. Pure formatting, no I/O.
type ScriptRenderer interface {
	Render(spec domain.FitSpec) string
}
