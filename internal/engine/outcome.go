package engine

import "time"

// OutcomeStatus is the closed set of per-item results within a cycle.
type OutcomeStatus int

const (
	OutcomeDownloaded OutcomeStatus = iota
	OutcomeDownloadFailed
	OutcomeSkippedDirectory
	OutcomeSkippedUnknown
)

// String returns the lowercase label used in logs and tool output.
func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeDownloadFailed:
		return "download-failed"
	case OutcomeSkippedDirectory:
		return "skipped-directory"
	case OutcomeSkippedUnknown:
		return "skipped-unknown"
	default:
		return "unknown"
	}
}

// Outcome records the result of processing one remote entry.
type Outcome struct {
	Name     string
	Status   OutcomeStatus
	Size     int64
	Checksum string
	Detail   string
}

// CycleResult aggregates one complete ingestion cycle for one folder.
// Err holds a cycle-level failure (connect, change directory or list);
// per-item failures live in the outcome records instead.
type CycleResult struct {
	FolderID   string
	FolderName string
	Started    time.Time
	Finished   time.Time
	Outcomes   []Outcome
	Err        error
}

// Downloaded counts the items stored during the cycle.
func (r CycleResult) Downloaded() int {
	return r.countStatus(OutcomeDownloaded)
}

// Failed counts the items whose download or write failed.
func (r CycleResult) Failed() int {
	return r.countStatus(OutcomeDownloadFailed)
}

func (r CycleResult) countStatus(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// clone returns a copy whose outcome slice is independent of the original.
func (r CycleResult) clone() CycleResult {
	out := r
	out.Outcomes = make([]Outcome, len(r.Outcomes))
	copy(out.Outcomes, r.Outcomes)
	return out
}
