// Package limiter bounds concurrent in-flight calls to the generation service.
package limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter is a counting admission gate with a fixed capacity. At most
// capacity holders are admitted at once; Acquire suspends until a slot frees.
type Limiter struct {
	sem *semaphore.Weighted
}

// New creates a limiter admitting at most capacity concurrent holders
func New(capacity int) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(capacity))}
}

// Acquire blocks until a slot is available or the context is done
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release frees one slot. Callers must pair every successful Acquire with
// exactly one Release, on all exit paths.
func (l *Limiter) Release() {
	l.sem.Release(1)
}
