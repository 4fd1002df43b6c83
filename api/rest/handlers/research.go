package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"research-orchestrator/core/jobstore"
	"research-orchestrator/core/models"
	"research-orchestrator/core/supervisor"
)

// ResearchHandler handles research job HTTP requests
type ResearchHandler struct {
	sup     *supervisor.Supervisor
	store   jobstore.Store
	persist supervisor.Persistence
	log     *zap.Logger
}

// NewResearchHandler creates a new research handler. persist may be nil when
// no durable store is configured.
func NewResearchHandler(sup *supervisor.Supervisor, store jobstore.Store, persist supervisor.Persistence, log *zap.Logger) *ResearchHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResearchHandler{sup: sup, store: store, persist: persist, log: log}
}

// SubmitResearchResponse represents the response after submitting a job
type SubmitResearchResponse struct {
	Status       string `json:"status"`
	JobID        string `json:"job_id"`
	Message      string `json:"message"`
	WebSocketURL string `json:"websocket_url"`
}

// SubmitResearch handles POST /research
func (h *ResearchHandler) SubmitResearch(w http.ResponseWriter, r *http.Request) {
	var req models.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Company == "" {
		http.Error(w, "company is required", http.StatusBadRequest)
		return
	}

	h.log.Info("received research request", zap.String("company", req.Company))
	jobID := h.sup.Submit(req)

	resp := SubmitResearchResponse{
		Status:       "accepted",
		JobID:        jobID,
		Message:      "Research started. Connect to WebSocket for updates.",
		WebSocketURL: "/research/ws/" + jobID,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(resp)
}

// GetResearch handles GET /research/{id}
func (h *ResearchHandler) GetResearch(w http.ResponseWriter, r *http.Request) {
	if h.persist == nil {
		http.Error(w, "Database persistence not configured", http.StatusNotImplemented)
		return
	}
	jobID := mux.Vars(r)["id"]

	job, err := h.persist.GetJob(jobID)
	if err != nil {
		h.log.Error("job lookup failed", zap.String("job_id", jobID), zap.Error(err))
		http.Error(w, "Failed to look up job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Research job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// GetResearchReport handles GET /research/{id}/report
func (h *ResearchHandler) GetResearchReport(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	if h.persist == nil {
		// Fall back to the in-memory snapshot.
		if job, ok := h.store.Get(jobID); ok && job.Report != "" {
			writeReport(w, job.Report)
			return
		}
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	report, err := h.persist.GetReport(jobID)
	if err != nil {
		h.log.Error("report lookup failed", zap.String("job_id", jobID), zap.Error(err))
		http.Error(w, "Failed to look up report", http.StatusInternalServerError)
		return
	}
	if report == "" {
		http.Error(w, "Research report not found", http.StatusNotFound)
		return
	}
	writeReport(w, report)
}

// GetStatus handles GET /research/{id}/status — the synchronous in-memory
// snapshot, useful when no observer is attached
func (h *ResearchHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]
	job, ok := h.store.Get(jobID)
	if !ok {
		http.Error(w, "Research job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

func writeReport(w http.ResponseWriter, report string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"report": report})
}
