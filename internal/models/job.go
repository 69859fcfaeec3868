// internal/models/job.go
package models

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusRunning    JobStatus = "running"
	JobStatusDone       JobStatus = "done"
	JobStatusError      JobStatus = "error"
)

// IsTerminal reports whether the generation service will not change the status again.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDone || s == JobStatusError
}

// Job is returned by the submit endpoint.
type Job struct {
	ID      string    `json:"job_id"`
	Status  JobStatus `json:"status"`
	Message string    `json:"message,omitempty"`
	Note    string    `json:"note,omitempty"`
}

// StatusResponse mirrors GET /api/v1/pitches/{job_id}/status.
type StatusResponse struct {
	JobID       string    `json:"job_id,omitempty"`
	Status      JobStatus `json:"status"`
	DownloadURL string    `json:"download_url,omitempty"`
	HasPPTX     bool      `json:"has_pptx,omitempty"`
	Error       string    `json:"error,omitempty"`
}
