package pipeline

import "context"

// Stage is a named unit of work that consumes the shared state and returns
// its writes as a tagged Result. A stage may fan out into concurrent
// sub-tasks internally; failures of individual sub-tasks must be absorbed
// and never surface as a stage failure.
type Stage interface {
	Name() string
	Run(ctx context.Context, st *State) Result
}

// Result is the tagged outcome of one stage run: success with an update,
// a soft failure (the stage finished but produced no usable output), or a
// hard failure that halts the run.
type Result struct {
	Update Update
	soft   string
	cause  error
}

// Success returns a successful result carrying the stage's writes
func Success(u Update) Result {
	return Result{Update: u}
}

// SoftFailure returns a result for a stage that completed without usable
// output. The update is still merged so partial work is not lost.
func SoftFailure(u Update, reason string) Result {
	return Result{Update: u, soft: reason}
}

// HardFailure returns a result for an unrecoverable stage error
func HardFailure(cause error) Result {
	return Result{cause: cause}
}

// Hard returns the unrecoverable error, if any
func (r Result) Hard() error {
	return r.cause
}

// Soft returns the soft-failure reason and whether one was recorded
func (r Result) Soft() (string, bool) {
	return r.soft, r.soft != ""
}
