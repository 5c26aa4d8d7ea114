package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"atelier-service/internal/core/domain"
)

// FakeAttemptStore is an in-memory ModelAttemptRepository with real version
// allocation semantics, for exercising the orchestrator under concurrency.
type FakeAttemptStore struct {
	// BeforeRunning, when set, runs on the job goroutine just before the
	// pending->running transition. Lets tests attach observers before any
	// event is published.
	BeforeRunning func(id uuid.UUID)

	// CreateErr, when set, fails every Create without consuming a version.
	CreateErr error

	mu       sync.Mutex
	versions map[uuid.UUID]int
	attempts map[uuid.UUID]*domain.ModelAttempt
}

func NewFakeAttemptStore() *FakeAttemptStore {
	return &FakeAttemptStore{
		versions: make(map[uuid.UUID]int),
		attempts: make(map[uuid.UUID]*domain.ModelAttempt),
	}
}

// Create mirrors the store's atomic allocate-and-insert: the version counter
// only advances when the record lands.
func (s *FakeAttemptStore) Create(ctx context.Context, attempt *domain.ModelAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.versions[attempt.ProjectID]++
	attempt.Version = s.versions[attempt.ProjectID]
	if attempt.Name == "" {
		attempt.Name = domain.VersionName(attempt.Version)
	}
	clone := *attempt
	s.attempts[attempt.ID] = &clone
	return nil
}

func (s *FakeAttemptStore) MarkRunning(ctx context.Context, id uuid.UUID) error {
	if s.BeforeRunning != nil {
		s.BeforeRunning(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	a.Status = domain.StatusRunning
	return nil
}

func (s *FakeAttemptStore) Complete(ctx context.Context, id uuid.UUID, result *domain.FitResult, generatedCode string, durationMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	a.Status = domain.StatusCompleted
	a.Metrics = &result.Metrics
	a.Coefficients = result.Coefficients
	a.Relativities = result.Relativities
	a.Diagnostics = result.Diagnostics
	a.Artifact = result.Artifact
	a.Summary = result.Summary
	a.GeneratedCode = generatedCode
	a.FitDurationMs = &durationMs
	return nil
}

func (s *FakeAttemptStore) Fail(ctx context.Context, id uuid.UUID, kind domain.FailureKind, message, suggestion string, durationMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	a.Status = domain.StatusFailed
	a.FailureKind = kind
	a.FailureMessage = message
	a.FailureSuggestion = suggestion
	a.FitDurationMs = &durationMs
	return nil
}

func (s *FakeAttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *FakeAttemptStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ModelAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ModelAttempt
	for _, a := range s.attempts {
		if a.ProjectID == projectID {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

// FakeDatasetRepo serves a fixed dataset to every GetByID call.
type FakeDatasetRepo struct {
	Dataset *domain.Dataset
}

func (r *FakeDatasetRepo) Create(ctx context.Context, dataset *domain.Dataset) error {
	return nil
}

func (r *FakeDatasetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	if r.Dataset == nil {
		return nil, domain.ErrDatasetNotFound
	}
	return r.Dataset, nil
}

func (r *FakeDatasetRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Dataset, error) {
	if r.Dataset == nil {
		return nil, nil
	}
	return []*domain.Dataset{r.Dataset}, nil
}

// StubEngine is a scriptable FitEngine. If Release is non-nil, Fit blocks
// until the channel is closed; Progress ticks are reported before returning.
type StubEngine struct {
	Release  chan struct{}
	Progress []domain.FitProgress
	Result   *domain.FitResult
	Err      error
	Panic    bool
}

func (e *StubEngine) Fit(ctx context.Context, datasetPath string, spec domain.FitSpec, onProgress func(domain.FitProgress)) (*domain.FitResult, error) {
	if e.Release != nil {
		select {
		case <-e.Release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if e.Panic {
		panic("engine blew up")
	}
	if onProgress != nil {
		for _, p := range e.Progress {
			onProgress(p)
		}
	}
	if e.Err != nil {
		return nil, e.Err
	}
	if e.Result != nil {
		return e.Result, nil
	}
	return &domain.FitResult{Metrics: domain.FitMetrics{Converged: true, Iterations: len(e.Progress)}}, nil
}

// StubRenderer is a ScriptRenderer returning a fixed snippet.
type StubRenderer struct {
	Text string
}

func (r *StubRenderer) Render(spec domain.FitSpec) string {
	if r.Text == "" {
		return "# reproduction script"
	}
	return r.Text
}
