package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"research-orchestrator/core/events"
	"research-orchestrator/core/jobstore"
	"research-orchestrator/core/models"
)

// WSHandler streams status events to WebSocket observers
type WSHandler struct {
	hub      *events.Hub
	store    jobstore.Store
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(hub *events.Hub, store jobstore.Store, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		hub:   hub,
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// ServeWS handles GET /research/ws/{job_id}. The observer first receives a
// catch-up snapshot of the job's current state, then every event from the
// moment it attached, in emission order. Disconnecting never affects the
// running job.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.String("job_id", jobID), zap.Error(err))
		return
	}
	defer conn.Close()

	// Subscribe before the catch-up read so no live event can fall between
	// snapshot and stream.
	sub := h.hub.Subscribe(jobID)
	defer h.hub.Unsubscribe(sub)

	if job, ok := h.store.Get(jobID); ok {
		if err := conn.WriteJSON(models.CatchUpEvent(job)); err != nil {
			h.log.Warn("catch-up write failed", zap.String("job_id", jobID), zap.Error(err))
			return
		}
	}

	// Drain client frames so we notice a disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.log.Warn("event write failed", zap.String("job_id", jobID), zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
