package launcher

import "time"

// Launch records one fire-and-forget process
type Launch struct {
	ID        int       `json:"id"`
	Purpose   string    `json:"purpose"`
	Command   string    `json:"command"`
	Args      []string  `json:"args"`
	Dir       string    `json:"dir,omitempty"`
	PID       int32     `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	Running   bool      `json:"running"`
	Exited    bool      `json:"exited"`
	ExitCode  int       `json:"exit_code"`
	Error     string    `json:"error,omitempty"`
}

// LaunchList contains recent launches, newest first
type LaunchList struct {
	Launches []Launch `json:"launches"`
	Total    int      `json:"total"`
}
