package routes

import (
	"github.com/gorilla/mux"

	"research-orchestrator/api/rest/handlers"
)

// SetupRoutes configures all API routes. The WebSocket route is registered
// before the parameterized job route so it wins matching.
func SetupRoutes(r *mux.Router, research *handlers.ResearchHandler, ws *handlers.WSHandler) {
	r.HandleFunc("/research", research.SubmitResearch).Methods("POST")
	r.HandleFunc("/research/ws/{job_id}", ws.ServeWS).Methods("GET")
	r.HandleFunc("/research/{id}/report", research.GetResearchReport).Methods("GET")
	r.HandleFunc("/research/{id}/status", research.GetStatus).Methods("GET")
	r.HandleFunc("/research/{id}", research.GetResearch).Methods("GET")
}
