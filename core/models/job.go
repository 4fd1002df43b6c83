package models

import "time"

// Job represents one end-to-end research run for a single request
type Job struct {
	ID         string          `json:"job_id"`
	Company    string          `json:"company,omitempty"`
	Status     JobStatus       `json:"status"`
	Result     *ResearchResult `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	Report     string          `json:"report,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	LastUpdate time.Time       `json:"last_update"`
}

// JobStatus represents the current lifecycle state of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further status transitions are allowed
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ResearchRequest represents an incoming research submission
type ResearchRequest struct {
	Company    string `json:"company"`
	CompanyURL string `json:"company_url,omitempty"`
	Industry   string `json:"industry,omitempty"`
	HQLocation string `json:"hq_location,omitempty"`
}

// ResearchResult is the structured payload attached to a completed job
type ResearchResult struct {
	Report  string `json:"report"`
	Company string `json:"company"`
}
