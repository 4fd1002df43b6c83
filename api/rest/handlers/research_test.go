package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-orchestrator/core/events"
	"research-orchestrator/core/jobstore"
	"research-orchestrator/core/models"
	"research-orchestrator/core/supervisor"
)

type fakeRetriever struct {
	docs map[models.Category][]models.Document
}

func (f *fakeRetriever) Collect(context.Context, models.ResearchRequest) (map[models.Category][]models.Document, error) {
	return f.docs, nil
}

type fakeGen struct{}

func (fakeGen) Generate(context.Context, string) (string, error) {
	return "generated text", nil
}

type fixture struct {
	router *mux.Router
	store  *jobstore.MemoryStore
	hub    *events.Hub
	sup    *supervisor.Supervisor
}

func newFixture() *fixture {
	store := jobstore.NewMemoryStore()
	hub := events.NewHub(nil)
	retriever := &fakeRetriever{docs: map[models.Category][]models.Document{
		models.CategoryCompany: {{
			Title:      "about",
			Content:    "facts",
			Evaluation: models.Evaluation{OverallScore: 0.9},
		}},
	}}
	sup := supervisor.New(store, hub, nil, retriever, fakeGen{}, supervisor.Options{}, nil)

	r := mux.NewRouter()
	r.HandleFunc("/research", NewResearchHandler(sup, store, nil, nil).SubmitResearch).Methods("POST")
	r.HandleFunc("/research/ws/{job_id}", NewWSHandler(hub, store, nil).ServeWS).Methods("GET")
	r.HandleFunc("/research/{id}/report", NewResearchHandler(sup, store, nil, nil).GetResearchReport).Methods("GET")
	r.HandleFunc("/research/{id}/status", NewResearchHandler(sup, store, nil, nil).GetStatus).Methods("GET")
	r.HandleFunc("/research/{id}", NewResearchHandler(sup, store, nil, nil).GetResearch).Methods("GET")

	return &fixture{router: r, store: store, hub: hub, sup: sup}
}

// awaitStatus polls the store until the job reaches a terminal status
func (f *fixture) awaitTerminal(t *testing.T, jobID string) models.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job, ok := f.store.Get(jobID); ok && job.Status.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal status")
	return models.Job{}
}

func TestSubmitResearch(t *testing.T) {
	f := newFixture()
	body := strings.NewReader(`{"company": "Acme", "industry": "Aerospace"}`)
	req := httptest.NewRequest(http.MethodPost, "/research", body)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp SubmitResearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, "/research/ws/"+resp.JobID, resp.WebSocketURL)
}

func TestSubmitResearchValidation(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/research", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/research", strings.NewReader(`{"industry": "x"}`))
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetResearchWithoutPersistence(t *testing.T) {
	f := newFixture()
	req := httptest.NewRequest(http.MethodGet, "/research/some-id", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestGetStatus(t *testing.T) {
	f := newFixture()
	jobID := f.sup.Submit(models.ResearchRequest{Company: "Acme"})

	req := httptest.NewRequest(http.MethodGet, "/research/"+jobID+"/status", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var job models.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, jobID, job.ID)

	req = httptest.NewRequest(http.MethodGet, "/research/unknown/status", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetReportFallsBackToMemory(t *testing.T) {
	f := newFixture()
	jobID := f.sup.Submit(models.ResearchRequest{Company: "Acme"})
	job := f.awaitTerminal(t, jobID)
	require.Equal(t, models.JobStatusCompleted, job.Status)

	req := httptest.NewRequest(http.MethodGet, "/research/"+jobID+"/report", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["report"])
}

func TestWebSocketCatchUpAfterTerminal(t *testing.T) {
	f := newFixture()
	jobID := f.sup.Submit(models.ResearchRequest{Company: "Acme"})
	f.awaitTerminal(t, jobID)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/research/ws/" + jobID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev models.StatusEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, jobID, ev.JobID)
	assert.Equal(t, models.EventStatus(models.JobStatusCompleted), ev.Status)
	require.NotNil(t, ev.Result)
	assert.NotEmpty(t, ev.Result["report"])
}

func TestWebSocketStreamsLiveEvents(t *testing.T) {
	f := newFixture()
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	// Publish directly through the hub to a connected observer.
	jobID := "live-job"
	f.store.Create(jobID, "Acme")

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/research/ws/" + jobID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var catchUp models.StatusEvent
	require.NoError(t, conn.ReadJSON(&catchUp))
	assert.Equal(t, models.EventStatus(models.JobStatusPending), catchUp.Status)

	f.hub.Publish(models.StatusEvent{
		JobID:     jobID,
		Status:    models.EventStatusProcessing,
		Message:   "Starting research",
		Timestamp: time.Now(),
	})

	var live models.StatusEvent
	require.NoError(t, conn.ReadJSON(&live))
	assert.Equal(t, models.EventStatusProcessing, live.Status)
	assert.Equal(t, "Starting research", live.Message)
}
