package result

import "time"

// RunMeta records one entry point launch: what was run, how it was invoked,
// and how it exited.
type RunMeta struct {
	Experiment    string    `json:"experiment"`
	Model         string    `json:"model"`
	Data          string    `json:"data"`
	Iter          int       `json:"iter"`
	Command       []string  `json:"command"`
	Backend       string    `json:"backend"`
	StartedAt     time.Time `json:"started_at"`
	DurationS     int       `json:"duration_s"`
	ExitCode      int       `json:"exit_code"`
	ExitReason    string    `json:"exit_reason"`
	TrackingRunID string    `json:"tracking_run_id,omitempty"`
}
