package engine

// Status is the coarse, collaborator-facing state of the engine.
type Status int

const (
	StatusIdle Status = iota
	StatusConfiguring
	StatusMonitoring
	StatusConnecting
	StatusTransferring
	StatusSuccess
	StatusError
)

// String returns the lowercase label used in tool output.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConfiguring:
		return "configuring"
	case StatusMonitoring:
		return "monitoring"
	case StatusConnecting:
		return "connecting"
	case StatusTransferring:
		return "transferring"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Status derives the engine state. Activity wins over rest states: a
// worker mid-dial reports connecting, a worker mid-transfer reports
// transferring. At rest, a scheduled active engine is monitoring unless
// the most recent cycle failed outright; a paused or stopped engine
// reports the result of its most recent cycle.
func (e *Engine) Status() Status {
	if e.configuring.Load() {
		return StatusConfiguring
	}
	if e.Config() == nil {
		return StatusIdle
	}

	e.mu.Lock()
	workers := e.workersInOrder()
	scheduled := e.cron != nil
	e.mu.Unlock()

	connecting := false
	transferring := false
	var latest *CycleResult
	for _, w := range workers {
		switch w.currentPhase() {
		case phaseConnecting:
			connecting = true
		case phaseTransferring:
			transferring = true
		}
		if result, ok := w.lastResult(); ok {
			if latest == nil || result.Finished.After(latest.Finished) {
				r := result
				latest = &r
			}
		}
	}

	if connecting {
		return StatusConnecting
	}
	if transferring {
		return StatusTransferring
	}

	if scheduled && e.active.Load() {
		if latest != nil && latest.Err != nil {
			return StatusError
		}
		return StatusMonitoring
	}

	if latest != nil {
		if latest.Err != nil {
			return StatusError
		}
		return StatusSuccess
	}
	return StatusIdle
}
