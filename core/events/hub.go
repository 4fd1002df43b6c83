// Package events delivers job status updates to any number of observers.
package events

import (
	"sync"

	"go.uber.org/zap"

	"research-orchestrator/core/models"
)

// Sink receives status events for delivery to observers of a job
type Sink interface {
	Publish(event models.StatusEvent)
}

// defaultBuffer is the per-subscriber event buffer. A subscriber that falls
// further behind than this loses events rather than stalling the pipeline.
const defaultBuffer = 64

// Hub broadcasts status events to subscribers keyed by job id. Observers may
// attach and detach at any time without affecting the running job.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscriber]struct{}
	log  *zap.Logger
}

// NewHub creates an empty broadcast hub
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		subs: make(map[string]map[*Subscriber]struct{}),
		log:  log,
	}
}

// Subscriber is one observer attached to a job's event stream
type Subscriber struct {
	jobID string
	ch    chan models.StatusEvent
}

// Events returns the channel delivering this subscriber's events in
// emission order
func (s *Subscriber) Events() <-chan models.StatusEvent {
	return s.ch
}

// Subscribe attaches an observer to the given job id
func (h *Hub) Subscribe(jobID string) *Subscriber {
	sub := &Subscriber{
		jobID: jobID,
		ch:    make(chan models.StatusEvent, defaultBuffer),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[jobID] == nil {
		h.subs[jobID] = make(map[*Subscriber]struct{})
	}
	h.subs[jobID][sub] = struct{}{}
	return sub
}

// Unsubscribe detaches an observer and closes its event channel
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sub.jobID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.jobID)
	}
	close(sub.ch)
}

// Publish delivers the event to every subscriber of its job id. Delivery is
// non-blocking: a subscriber with a full buffer misses the event.
func (h *Hub) Publish(event models.StatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[event.JobID] {
		select {
		case sub.ch <- event:
		default:
			h.log.Warn("dropping event for slow subscriber",
				zap.String("job_id", event.JobID),
				zap.String("status", string(event.Status)),
			)
		}
	}
}
