package repository

import (
	"database/sql"
	"time"

	"github.com/rotisserie/eris"

	"research-orchestrator/core/models"
)

// JobRepository handles database operations for research jobs and their
// reports. It implements the supervisor's Persistence interface.
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

// CreateJob records a newly submitted job
func (r *JobRepository) CreateJob(jobID string, req models.ResearchRequest) error {
	query := `
		INSERT INTO research_jobs (
			id, company, company_url, industry, hq_location, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	now := time.Now()
	_, err := r.db.Exec(query,
		jobID,
		req.Company,
		req.CompanyURL,
		req.Industry,
		req.HQLocation,
		models.JobStatusPending,
		now,
		now,
	)
	if err != nil {
		return eris.Wrap(err, "repository: create job")
	}
	return nil
}

// UpdateJob records a status transition, with the error message for failed
// jobs
func (r *JobRepository) UpdateJob(jobID string, status models.JobStatus, errMsg string) error {
	query := `
		UPDATE research_jobs
		SET status = $2, error = NULLIF($3, ''), updated_at = $4
		WHERE id = $1
	`
	_, err := r.db.Exec(query, jobID, status, errMsg, time.Now())
	if err != nil {
		return eris.Wrap(err, "repository: update job")
	}
	return nil
}

// StoreReport saves the compiled report for a job, replacing any prior copy
func (r *JobRepository) StoreReport(jobID, report string) error {
	query := `
		INSERT INTO research_reports (job_id, report, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id) DO UPDATE SET report = EXCLUDED.report, created_at = EXCLUDED.created_at
	`
	_, err := r.db.Exec(query, jobID, report, time.Now())
	if err != nil {
		return eris.Wrap(err, "repository: store report")
	}
	return nil
}

// GetJob retrieves a job snapshot by id. Returns nil when unknown.
func (r *JobRepository) GetJob(jobID string) (*models.Job, error) {
	query := `
		SELECT id, company, status, error, created_at, updated_at
		FROM research_jobs
		WHERE id = $1
	`
	var job models.Job
	var errMsg sql.NullString
	err := r.db.QueryRow(query, jobID).Scan(
		&job.ID,
		&job.Company,
		&job.Status,
		&errMsg,
		&job.CreatedAt,
		&job.LastUpdate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "repository: get job")
	}
	job.Error = errMsg.String
	return &job, nil
}

// GetReport retrieves the stored report for a job. Returns "" when absent.
func (r *JobRepository) GetReport(jobID string) (string, error) {
	var report string
	err := r.db.QueryRow(`SELECT report FROM research_reports WHERE job_id = $1`, jobID).Scan(&report)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrap(err, "repository: get report")
	}
	return report, nil
}
