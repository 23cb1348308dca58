package mcp

// StatusInput represents input for the get_status tool
type StatusInput struct{}

// StatusOutput represents output from the get_status tool
type StatusOutput struct {
	Status     string `json:"status"`
	Configured bool   `json:"configured"`
	Active     bool   `json:"active"`
	Host       string `json:"host,omitempty"`
	LocalPath  string `json:"local_path,omitempty"`
	Folders    int    `json:"folders"`
}

// ServerInput describes the FTP endpoint in a submitted configuration
type ServerInput struct {
	Host      string `json:"host" jsonschema:"FTP server host, scheme and path are stripped"`
	Port      int    `json:"port,omitempty" jsonschema:"control port, defaults to 21"`
	Username  string `json:"username" jsonschema:"login user"`
	Password  string `json:"password,omitempty" jsonschema:"login password"`
	LocalPath string `json:"local_path" jsonschema:"local directory files are mirrored into"`
}

// FolderInput describes one monitored folder in a submitted configuration
type FolderInput struct {
	ID              string `json:"id,omitempty" jsonschema:"stable folder identifier, generated when empty"`
	Name            string `json:"name" jsonschema:"display name, used as the local subdirectory"`
	RemotePath      string `json:"remote_path" jsonschema:"absolute path on the FTP server"`
	IntervalMinutes int    `json:"interval_minutes" jsonschema:"minutes between ingestion cycles, minimum 1"`
}

// SubmitConfigInput represents input for the submit_config tool
type SubmitConfigInput struct {
	Server  ServerInput   `json:"server" jsonschema:"FTP endpoint and local mirror root"`
	Folders []FolderInput `json:"folders" jsonschema:"folders to monitor"`
}

// SubmitConfigOutput represents output from the submit_config tool
type SubmitConfigOutput struct {
	Applied bool   `json:"applied"`
	Folders int    `json:"folders,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ToggleInput represents input for the toggle_monitoring tool
type ToggleInput struct {
	Active bool `json:"active" jsonschema:"true resumes tick dispatch, false pauses it"`
}

// ToggleOutput represents output from the toggle_monitoring tool
type ToggleOutput struct {
	Active bool `json:"active"`
}

// TailLogInput represents input for the tail_log tool
type TailLogInput struct {
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum entries to return, newest first (default 20)"`
	Severity string `json:"severity,omitempty" jsonschema:"only entries of this severity: info, success, warning or error"`
}

// TailLogOutput represents output from the tail_log tool
type TailLogOutput struct {
	Entries []LogEntry `json:"entries"`
	Total   int        `json:"total"`
}

// LogEntry is one rendered operation log line
type LogEntry struct {
	ID       int64  `json:"id"`
	Time     string `json:"time"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// FolderOutcomesInput represents input for the folder_outcomes tool
type FolderOutcomesInput struct {
	Folder string `json:"folder,omitempty" jsonschema:"folder ID or name, all folders when empty"`
}

// FolderOutcomesOutput represents output from the folder_outcomes tool
type FolderOutcomesOutput struct {
	Folders []FolderInfo `json:"folders"`
}

// FolderInfo summarizes one monitored folder and its latest cycle
type FolderInfo struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	RemotePath      string        `json:"remote_path"`
	IntervalMinutes int           `json:"interval_minutes"`
	LastStarted     string        `json:"last_started,omitempty"`
	LastFinished    string        `json:"last_finished,omitempty"`
	LastError       string        `json:"last_error,omitempty"`
	Outcomes        []OutcomeInfo `json:"outcomes,omitempty"`
}

// OutcomeInfo is the per-item result of the latest cycle
type OutcomeInfo struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Size     int64  `json:"size,omitempty"`
	Checksum string `json:"checksum,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// RunCycleInput represents input for the run_cycle tool
type RunCycleInput struct {
	Folder string `json:"folder" jsonschema:"folder ID or name to run one ingestion cycle for"`
}

// RunCycleOutput represents output from the run_cycle tool
type RunCycleOutput struct {
	Folder     string        `json:"folder"`
	Downloaded int           `json:"downloaded"`
	Failed     int           `json:"failed"`
	Error      string        `json:"error,omitempty"`
	Outcomes   []OutcomeInfo `json:"outcomes,omitempty"`
}
