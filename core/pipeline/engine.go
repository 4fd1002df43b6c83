package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"research-orchestrator/core/events"
	"research-orchestrator/core/models"
)

// softFailureMessage is the terminal error for a run that finished without
// producing a report, distinct from a hard stage exception.
const softFailureMessage = "no report was generated"

// Engine drives the shared state through the ordered stage sequence for one
// job, emitting lifecycle events as it goes. A run is finite and not
// restartable; a fresh run requires a fresh Engine.
type Engine struct {
	jobID  string
	stages []Stage
	sink   events.Sink
	log    *zap.Logger
}

// NewEngine creates an engine bound to a job id
func NewEngine(jobID string, stages []Stage, sink events.Sink, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		jobID:  jobID,
		stages: stages,
		sink:   sink,
		log:    log.With(zap.String("job_id", jobID)),
	}
}

// Run executes the stages against the state, producing a lazy finite
// sequence of partial updates. The caller merges each update into its own
// accumulator by key. On a hard stage failure the engine stops advancing,
// emits a terminal failed event, and the sequence ends; it never continues
// downstream with missing data.
func (e *Engine) Run(ctx context.Context, st *State) <-chan Update {
	out := make(chan Update)
	go func() {
		defer close(out)
		for _, stage := range e.stages {
			e.emit(models.EventStatusProcessing, fmt.Sprintf("Running %s stage", stage.Name()),
				map[string]interface{}{"step": stage.Name()}, "")

			started := time.Now()
			res := stage.Run(ctx, st)

			if err := res.Hard(); err != nil {
				e.log.Error("stage failed",
					zap.String("stage", stage.Name()),
					zap.Duration("elapsed", time.Since(started)),
					zap.Error(err),
				)
				errText := err.Error()
				up := res.Update
				up.Err = &errText
				st.Apply(up)
				out <- up
				e.emit(models.EventStatusFailed, fmt.Sprintf("Research failed: %s", errText), nil, errText)
				return
			}

			st.Apply(res.Update)
			out <- res.Update
			e.log.Info("stage complete",
				zap.String("stage", stage.Name()),
				zap.Duration("elapsed", time.Since(started)),
				zap.Int("state_version", st.Version),
			)

			if reason, ok := res.Soft(); ok {
				e.failSoft(out, st, reason)
				return
			}
		}

		// Backstop: a run that went through every stage but still holds no
		// report is a soft failure, not a success.
		if st.ResolveReport() == "" {
			e.failSoft(out, st, softFailureMessage)
		}
	}()
	return out
}

// failSoft records a terminal soft failure and ends the sequence
func (e *Engine) failSoft(out chan<- Update, st *State, reason string) {
	e.log.Error("run finished without a report", zap.String("reason", reason))
	errText := reason
	up := Update{Err: &errText}
	st.Apply(up)
	out <- up
	e.emit(models.EventStatusFailed, "Research completed but no report was generated", nil, reason)
}

// emit publishes a status event for this job
func (e *Engine) emit(status models.EventStatus, message string, result map[string]interface{}, errText string) {
	if e.sink == nil {
		return
	}
	e.sink.Publish(models.StatusEvent{
		JobID:     e.jobID,
		Status:    status,
		Message:   message,
		Result:    result,
		Error:     errText,
		Timestamp: time.Now(),
	})
}
