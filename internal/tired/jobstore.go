// Package tired is the tire recommendation daemon: an in-memory job store,
// an asynchronous selection executor, and the HTTP API in front of them.
package tired

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/TireMDO-25-26/sizing-core/pkg/models"
	"github.com/TireMDO-25-26/sizing-core/pkg/utils"
)

// JobStore keeps selection jobs in memory, keyed by job ID. All accessors
// return copies; only the store mutates the stored jobs.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.SelectionJob
}

// NewJobStore creates an empty store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*models.SelectionJob),
	}
}

// Create registers a new pending job. An empty id gets a generated one.
func (s *JobStore) Create(id string, req models.Requirement, families []string, backend string) (models.SelectionJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = utils.GenerateJobID()
	}
	if _, exists := s.jobs[id]; exists {
		return models.SelectionJob{}, fmt.Errorf("job already exists: %s", id)
	}

	job := &models.SelectionJob{
		ID:          id,
		Requirement: req,
		Families:    families,
		Backend:     backend,
		Status:      models.JobStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.jobs[id] = job
	return *job, nil
}

// Get returns a copy of the job, if present.
func (s *JobStore) Get(id string) (models.SelectionJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.SelectionJob{}, false
	}
	return *job, true
}

// List returns up to limit jobs, newest first.
func (s *JobStore) List(limit int) []models.SelectionJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]models.SelectionJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SetStatus transitions a job and stamps the transition time. Terminal
// jobs refuse further transitions.
func (s *JobStore) SetStatus(id string, status models.JobStatus, errMsg string) (models.SelectionJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return models.SelectionJob{}, fmt.Errorf("job not found: %s", id)
	}
	if job.Status.Terminal() {
		return models.SelectionJob{}, fmt.Errorf("job %s is terminal (%s)", id, job.Status)
	}

	job.Status = status
	if errMsg != "" {
		job.Error = errMsg
	}
	now := time.Now().UTC()
	switch status {
	case models.JobStatusRunning:
		if job.StartedAt.IsZero() {
			job.StartedAt = now
		}
	case models.JobStatusCompleted, models.JobStatusFailed, models.JobStatusCancelled:
		job.EndedAt = now
	}
	return *job, nil
}

// SetRankings attaches the selection outcome to a job.
func (s *JobStore) SetRankings(id string, rankings []models.RankedDesign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	job.Rankings = rankings
	return nil
}
