// Package jobstore tracks current status, result and error per job id,
// independent of how many observers are attached.
package jobstore

import (
	"sync"
	"time"

	"research-orchestrator/core/models"
)

// Store holds the authoritative in-process snapshot for every job. Entries
// are created at submit time and never deleted by the core; retention is an
// external concern.
type Store interface {
	Create(jobID, company string)
	Get(jobID string) (models.Job, bool)
	MarkProcessing(jobID string)
	MarkCompleted(jobID string, result *models.ResearchResult)
	MarkFailed(jobID, errMsg string)
}

// MemoryStore is the in-memory Store used when no persistence collaborator
// is configured. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
}

// NewMemoryStore creates an empty in-memory job store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*models.Job)}
}

// Create registers a new pending job
func (s *MemoryStore) Create(jobID, company string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.jobs[jobID] = &models.Job{
		ID:         jobID,
		Company:    company,
		Status:     models.JobStatusPending,
		CreatedAt:  now,
		LastUpdate: now,
	}
}

// Get returns a snapshot copy of the job, if known
func (s *MemoryStore) Get(jobID string) (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return models.Job{}, false
	}
	return *job, true
}

// MarkProcessing transitions a pending job to processing
func (s *MemoryStore) MarkProcessing(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = models.JobStatusProcessing
	job.LastUpdate = time.Now()
}

// MarkCompleted records the terminal completed state with its result
func (s *MemoryStore) MarkCompleted(jobID string, result *models.ResearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = models.JobStatusCompleted
	job.Result = result
	if result != nil {
		job.Report = result.Report
	}
	job.LastUpdate = time.Now()
}

// MarkFailed records the terminal failed state with its error message
func (s *MemoryStore) MarkFailed(jobID, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = models.JobStatusFailed
	job.Error = errMsg
	job.LastUpdate = time.Now()
}
