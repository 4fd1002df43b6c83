// Package supervisor drives one pipeline run per submitted job and
// reconciles its outcome into the job store and event stream.
package supervisor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"research-orchestrator/core/events"
	"research-orchestrator/core/generation"
	"research-orchestrator/core/jobstore"
	"research-orchestrator/core/limiter"
	"research-orchestrator/core/models"
	"research-orchestrator/core/pipeline"
)

// Persistence is the optional durable job/report store. Its absence never
// breaks the pipeline; the in-memory store remains authoritative.
type Persistence interface {
	CreateJob(jobID string, req models.ResearchRequest) error
	UpdateJob(jobID string, status models.JobStatus, errMsg string) error
	StoreReport(jobID, report string) error
	GetJob(jobID string) (*models.Job, error)
	GetReport(jobID string) (string, error)
}

// Options tunes supervisor behavior
type Options struct {
	// BriefingConcurrency caps concurrent generation calls inside the
	// briefing stage.
	BriefingConcurrency int
	// CurationMinScore is the evaluation score below which collected
	// documents are dropped.
	CurationMinScore float64
	// ConnectDelay gives a submitting client time to attach its observer
	// before the first event is emitted.
	ConnectDelay time.Duration
}

// Supervisor owns job lifecycles: it registers jobs, launches engine runs
// asynchronously, and records terminal outcomes. One engine run exists per
// job; jobs share no mutable state.
type Supervisor struct {
	store     jobstore.Store
	sink      events.Sink
	persist   Persistence
	retriever pipeline.Retriever
	gen       generation.Client
	opts      Options
	log       *zap.Logger
}

// New creates a supervisor. persist may be nil when no durable store is
// configured.
func New(
	store jobstore.Store,
	sink events.Sink,
	persist Persistence,
	retriever pipeline.Retriever,
	gen generation.Client,
	opts Options,
	log *zap.Logger,
) *Supervisor {
	if opts.BriefingConcurrency < 1 {
		opts.BriefingConcurrency = 2
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Supervisor{
		store:     store,
		sink:      sink,
		persist:   persist,
		retriever: retriever,
		gen:       gen,
		opts:      opts,
		log:       log,
	}
}

// Submit registers a new job and launches its pipeline run asynchronously.
// It returns the job id immediately; the run completes or fails on its own
// and a disconnecting observer never stops it.
func (s *Supervisor) Submit(req models.ResearchRequest) string {
	jobID := uuid.New().String()
	s.store.Create(jobID, req.Company)
	s.log.Info("job submitted",
		zap.String("job_id", jobID),
		zap.String("company", req.Company),
	)
	go s.process(jobID, req)
	return jobID
}

// Status returns the current snapshot for a job
func (s *Supervisor) Status(jobID string) (models.Job, bool) {
	return s.store.Get(jobID)
}

// process runs the pipeline for one job and reconciles its terminal state
func (s *Supervisor) process(jobID string, req models.ResearchRequest) {
	log := s.log.With(zap.String("job_id", jobID))

	if s.persist != nil {
		if err := s.persist.CreateJob(jobID, req); err != nil {
			log.Warn("failed to persist job, continuing without", zap.Error(err))
		}
	}

	// Give the client a moment to attach its observer.
	if s.opts.ConnectDelay > 0 {
		time.Sleep(s.opts.ConnectDelay)
	}

	s.store.MarkProcessing(jobID)
	s.publish(models.StatusEvent{
		JobID:     jobID,
		Status:    models.EventStatusProcessing,
		Message:   "Starting research",
		Timestamp: time.Now(),
	})

	ctx := context.Background()
	st := pipeline.NewState(jobID, req)
	eng := pipeline.NewEngine(jobID, s.stages(), s.sink, s.log)

	// st is the engine's working state, owned by the run goroutine while
	// stages execute. The supervisor never reads it; the yielded update
	// sequence is the engine's only output contract, so the outcome is
	// rebuilt here by merging each update into a separate accumulator.
	acc := pipeline.NewState(jobID, req)
	for up := range eng.Run(ctx, st) {
		acc.Apply(up)
	}

	if acc.Err != "" {
		// The engine already emitted the terminal failed event.
		s.store.MarkFailed(jobID, acc.Err)
		s.persistTerminal(jobID, models.JobStatusFailed, acc.Err, "")
		log.Error("research failed", zap.String("error", acc.Err))
		return
	}

	report := acc.ResolveReport()
	result := &models.ResearchResult{Report: report, Company: req.Company}
	s.store.MarkCompleted(jobID, result)
	s.persistTerminal(jobID, models.JobStatusCompleted, "", report)
	s.publish(models.StatusEvent{
		JobID:   jobID,
		Status:  models.EventStatusCompleted,
		Message: "Research completed successfully",
		Result: map[string]interface{}{
			"report":  report,
			"company": req.Company,
		},
		Timestamp: time.Now(),
	})
	log.Info("research completed", zap.Int("report_length", len(report)))
}

// stages builds the fixed stage sequence for one run
func (s *Supervisor) stages() []pipeline.Stage {
	lim := limiter.New(s.opts.BriefingConcurrency)
	return []pipeline.Stage{
		pipeline.NewCollectStage(s.retriever, s.log),
		pipeline.NewCurateStage(s.opts.CurationMinScore, s.log),
		pipeline.NewBriefingStage(s.gen, lim, s.sink, s.log),
		pipeline.NewEditorStage(s.gen, s.sink, s.log),
	}
}

// persistTerminal mirrors the terminal state to the durable store,
// best effort
func (s *Supervisor) persistTerminal(jobID string, status models.JobStatus, errMsg, report string) {
	if s.persist == nil {
		return
	}
	if err := s.persist.UpdateJob(jobID, status, errMsg); err != nil {
		s.log.Warn("failed to persist job status", zap.String("job_id", jobID), zap.Error(err))
	}
	if report != "" {
		if err := s.persist.StoreReport(jobID, report); err != nil {
			s.log.Warn("failed to persist report", zap.String("job_id", jobID), zap.Error(err))
		}
	}
}

// publish sends an event if a sink is attached
func (s *Supervisor) publish(ev models.StatusEvent) {
	if s.sink != nil {
		s.sink.Publish(ev)
	}
}
