package tired

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/TireMDO-25-26/sizing-core/internal/metrics"
	"github.com/TireMDO-25-26/sizing-core/internal/selector"
	"github.com/TireMDO-25-26/sizing-core/pkg/logger"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

var (
	ErrJobNotFound  = errors.New("job not found")
	ErrJobTerminal  = errors.New("job is terminal")
	ErrJobIDMissing = errors.New("job id is required")
)

// Executor runs selection jobs asynchronously with per-job cancellation.
type Executor struct {
	store     *JobStore
	selector  *selector.Selector
	collector *metrics.Collector

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewExecutor creates an executor over the given store and selector.
func NewExecutor(store *JobStore, sel *selector.Selector) *Executor {
	return &Executor{
		store:    store,
		selector: sel,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// WithCollector attaches a metrics collector.
func (e *Executor) WithCollector(c *metrics.Collector) *Executor {
	e.collector = c
	return e
}

// Start begins executing a job asynchronously and returns the updated
// (running) job.
func (e *Executor) Start(id string) (models.SelectionJob, error) {
	if id == "" {
		return models.SelectionJob{}, ErrJobIDMissing
	}
	job, ok := e.store.Get(id)
	if !ok {
		return models.SelectionJob{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	switch {
	case job.Status == models.JobStatusRunning:
		return job, nil
	case job.Status.Terminal():
		return models.SelectionJob{}, fmt.Errorf("%w: %s", ErrJobTerminal, id)
	}

	updated, err := e.store.SetStatus(id, models.JobStatusRunning, "")
	if err != nil {
		return models.SelectionJob{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	if old, exists := e.cancels[id]; exists {
		old()
	}
	e.cancels[id] = cancel
	e.mu.Unlock()

	go e.runSelection(ctx, id)
	return updated, nil
}

// Stop cancels a running job and marks it cancelled.
func (e *Executor) Stop(id string) (models.SelectionJob, error) {
	if id == "" {
		return models.SelectionJob{}, ErrJobIDMissing
	}
	if _, ok := e.store.Get(id); !ok {
		return models.SelectionJob{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	e.mu.Lock()
	cancel, ok := e.cancels[id]
	e.mu.Unlock()
	if ok {
		cancel()
	}

	updated, err := e.store.SetStatus(id, models.JobStatusCancelled, "")
	if err != nil {
		// The job finished before the cancellation landed.
		job, found := e.store.Get(id)
		if found && job.Status.Terminal() {
			return job, nil
		}
		return models.SelectionJob{}, err
	}
	e.observe(updated)
	return updated, nil
}

func (e *Executor) cleanup(id string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[id]; ok {
		cancel()
		delete(e.cancels, id)
	}
	e.mu.Unlock()
}

func (e *Executor) runSelection(ctx context.Context, id string) {
	defer e.cleanup(id)

	job, ok := e.store.Get(id)
	if !ok {
		logger.Error("job disappeared before execution", "job_id", id)
		return
	}

	ranked, err := e.selector.Select(ctx, job.Requirement, job.Families)
	switch {
	case errors.Is(err, context.Canceled):
		// Stop already marked the job cancelled.
		return
	case err != nil:
		logger.Error("selection failed", "job_id", id, "error", err)
		if failed, setErr := e.store.SetStatus(id, models.JobStatusFailed, err.Error()); setErr == nil {
			e.observe(failed)
		}
		return
	}

	if err := e.store.SetRankings(id, ranked); err != nil {
		logger.Error("failed to store rankings", "job_id", id, "error", err)
		return
	}
	completed, err := e.store.SetStatus(id, models.JobStatusCompleted, "")
	if err != nil {
		// Cancelled while results were being stored.
		logger.Warn("job finished after cancellation", "job_id", id)
		return
	}
	logger.Info("selection completed",
		"job_id", id, "feasible", len(ranked), "backend", job.Backend)
	e.observe(completed)
}

func (e *Executor) observe(job models.SelectionJob) {
	if e.collector == nil || !job.Status.Terminal() {
		return
	}
	duration := time.Duration(0)
	if !job.StartedAt.IsZero() && !job.EndedAt.IsZero() {
		duration = job.EndedAt.Sub(job.StartedAt)
	}
	e.collector.ObserveSelection(string(job.Status), duration)
}
