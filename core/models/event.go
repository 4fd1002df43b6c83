package models

import "time"

// EventStatus tags a StatusEvent with the pipeline step it reports
type EventStatus string

const (
	EventStatusPending          EventStatus = "pending"
	EventStatusProcessing       EventStatus = "processing"
	EventStatusBriefingStart    EventStatus = "briefing_start"
	EventStatusBriefingComplete EventStatus = "briefing_complete"
	EventStatusEditorComplete   EventStatus = "editor_complete"
	EventStatusCompleted        EventStatus = "completed"
	EventStatusFailed           EventStatus = "failed"
)

// StatusEvent is an immutable progress record broadcast to observers of a job.
// Events are ordered per job id; no ordering is guaranteed across jobs.
type StatusEvent struct {
	JobID     string                 `json:"job_id"`
	Status    EventStatus            `json:"status"`
	Message   string                 `json:"message"`
	Result    map[string]interface{} `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// CatchUpEvent builds the synthetic event sent to an observer that attaches
// after events began, reflecting the job's last known snapshot
func CatchUpEvent(job Job) StatusEvent {
	ev := StatusEvent{
		JobID:     job.ID,
		Status:    EventStatus(job.Status),
		Message:   "Connected to status stream",
		Error:     job.Error,
		Timestamp: time.Now(),
	}
	if job.Result != nil {
		ev.Result = map[string]interface{}{
			"report":  job.Result.Report,
			"company": job.Result.Company,
		}
	}
	return ev
}
