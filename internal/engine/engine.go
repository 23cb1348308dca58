// Package engine owns the monitoring state: the applied configuration,
// the per-folder workers with their timers, and the operation log. All
// control surfaces (CLI verbs, MCP tools) drive the same Engine.
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"ftpmirror/internal/config"
	"ftpmirror/internal/oplog"
	"ftpmirror/internal/remote"
	"ftpmirror/internal/store"
)

// DialFunc opens a remote session for one ingestion cycle.
type DialFunc func(srv config.Server) (remote.Conn, error)

// Engine coordinates folder monitoring for one applied configuration.
type Engine struct {
	cfg  *config.Store
	log  *oplog.Log
	dial DialFunc

	mu      sync.Mutex
	cron    *cron.Cron
	workers map[string]*worker // keyed by folder ID
	order   []string           // folder IDs in configured order

	active      atomic.Bool
	configuring atomic.Bool
}

// New creates an Engine that dials real FTP sessions.
func New() *Engine {
	return NewWithDialer(func(srv config.Server) (remote.Conn, error) {
		return remote.Dial(srv)
	})
}

// NewWithDialer creates an Engine using a custom session dialer.
func NewWithDialer(dial DialFunc) *Engine {
	e := &Engine{
		cfg:     config.NewStore(),
		log:     oplog.New(),
		dial:    dial,
		workers: make(map[string]*worker),
	}
	e.active.Store(true)
	return e
}

// SubmitConfig validates cfg and, on success, applies it: the previous
// schedule is torn down, one timer per folder is started and every folder
// runs a first cycle immediately. A failing validation leaves the engine
// untouched.
func (e *Engine) SubmitConfig(cfg config.Config) error {
	e.configuring.Store(true)
	defer e.configuring.Store(false)

	// cfg is a copy but Folders still aliases the caller's array.
	cfg.Folders = append([]config.Folder(nil), cfg.Folders...)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		e.log.Appendf(oplog.SeverityWarning, "configuration rejected: %v", err)
		return err
	}

	e.apply(&cfg)
	return nil
}

// apply stores cfg and rebuilds the worker set and schedule, one
// transition under the engine mutex so readers never see one config
// paired with another config's workers. In-flight cycles of the
// previous configuration run to completion on the old workers.
func (e *Engine) apply(cfg *config.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.Set(cfg)
	e.stopLocked()

	files := store.New(cfg.Server.LocalPath)
	e.workers = make(map[string]*worker, len(cfg.Folders))
	e.order = e.order[:0]
	c := cron.New()

	for _, folder := range cfg.Folders {
		w := newWorker(folder, cfg.Server, files, e.log, e.dial)
		e.workers[folder.ID] = w
		e.order = append(e.order, folder.ID)

		if _, err := files.EnsureDir(folder.Name); err != nil {
			e.log.Appendf(oplog.SeverityWarning, "[%s] local directory: %v", folder.Name, err)
		}

		schedule := fmt.Sprintf("@every %dm", folder.IntervalMinutes)
		if _, err := c.AddFunc(schedule, func() { e.dispatch(w) }); err != nil {
			e.log.Appendf(oplog.SeverityError, "[%s] scheduling failed: %v", folder.Name, err)
			continue
		}

		go e.dispatch(w)
	}

	e.cron = c
	c.Start()

	e.log.Appendf(oplog.SeverityInfo, "configuration applied: %d folder(s) on %s, mirroring into %s",
		len(cfg.Folders), cfg.Server.Host, files.Root())
}

// dispatch runs one tick on w unless monitoring is paused.
func (e *Engine) dispatch(w *worker) {
	if !e.active.Load() {
		e.log.Appendf(oplog.SeverityInfo, "[%s] monitoring inactive, tick skipped", w.folder.Name)
		return
	}
	w.tick()
}

// RunOnce applies cfg without scheduling and runs a single cycle for
// every folder sequentially, in configured order. Used by one-shot
// commands.
func (e *Engine) RunOnce(cfg config.Config) ([]CycleResult, error) {
	// cfg is a copy but Folders still aliases the caller's array.
	cfg.Folders = append([]config.Folder(nil), cfg.Folders...)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cfg.Set(&cfg)
	e.stopLocked()
	files := store.New(cfg.Server.LocalPath)
	e.workers = make(map[string]*worker, len(cfg.Folders))
	e.order = e.order[:0]
	for _, folder := range cfg.Folders {
		e.workers[folder.ID] = newWorker(folder, cfg.Server, files, e.log, e.dial)
		e.order = append(e.order, folder.ID)
	}
	workers := e.workersInOrder()
	e.mu.Unlock()

	results := make([]CycleResult, 0, len(workers))
	for _, w := range workers {
		results = append(results, w.runNow())
	}
	return results, nil
}

// RunFolderNow triggers one immediate cycle for the folder with the
// given ID or name. It is not gated by the active flag, but still waits
// for any in-flight cycle of the same folder.
func (e *Engine) RunFolderNow(key string) (CycleResult, error) {
	w, err := e.findWorker(key)
	if err != nil {
		return CycleResult{}, err
	}
	return w.runNow(), nil
}

// SetActive pauses or resumes tick dispatch. Timers keep firing while
// paused; their ticks are skipped and logged.
func (e *Engine) SetActive(active bool) {
	if e.active.Swap(active) == active {
		return
	}
	if active {
		e.log.Append(oplog.SeverityInfo, "monitoring resumed")
	} else {
		e.log.Append(oplog.SeverityInfo, "monitoring paused")
	}
}

// Active reports whether tick dispatch is enabled.
func (e *Engine) Active() bool {
	return e.active.Load()
}

// Stop cancels all folder timers. Cycles already in flight run to
// completion; the applied configuration and recorded results remain
// readable.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cron == nil {
		return
	}
	e.stopLocked()
	e.log.Append(oplog.SeverityInfo, "monitoring stopped")
}

// stopLocked halts the scheduler. Callers hold e.mu.
func (e *Engine) stopLocked() {
	if e.cron != nil {
		e.cron.Stop()
		e.cron = nil
	}
}

// Config returns the applied configuration, or nil.
func (e *Engine) Config() *config.Config {
	return e.cfg.Current()
}

// LogSnapshot returns the operation log, newest first.
func (e *Engine) LogSnapshot() []oplog.Entry {
	return e.log.Snapshot()
}

// FolderState is the collaborator-facing view of one monitored folder.
type FolderState struct {
	ID              string
	Name            string
	RemotePath      string
	IntervalMinutes int
	LastStarted     time.Time // zero until the first cycle completes
	LastFinished    time.Time
	LastError       string // cycle-level failure of the most recent cycle
	Outcomes        []Outcome
}

// Folders returns the state of every configured folder in configured
// order.
func (e *Engine) Folders() []FolderState {
	e.mu.Lock()
	workers := e.workersInOrder()
	e.mu.Unlock()

	states := make([]FolderState, 0, len(workers))
	for _, w := range workers {
		state := FolderState{
			ID:              w.folder.ID,
			Name:            w.folder.Name,
			RemotePath:      w.folder.RemotePath,
			IntervalMinutes: w.folder.IntervalMinutes,
		}
		if result, ok := w.lastResult(); ok {
			state.LastStarted = result.Started
			state.LastFinished = result.Finished
			state.Outcomes = result.Outcomes
			if result.Err != nil {
				state.LastError = result.Err.Error()
			}
		}
		states = append(states, state)
	}
	return states
}

// workersInOrder returns the current workers in configured order.
// Callers hold e.mu.
func (e *Engine) workersInOrder() []*worker {
	out := make([]*worker, 0, len(e.order))
	for _, id := range e.order {
		if w, ok := e.workers[id]; ok {
			out = append(out, w)
		}
	}
	return out
}

func (e *Engine) findWorker(key string) (*worker, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if w, ok := e.workers[key]; ok {
		return w, nil
	}
	for _, w := range e.workers {
		if w.folder.Name == key {
			return w, nil
		}
	}
	return nil, fmt.Errorf("unknown folder %q", key)
}

// scheduled reports whether folder timers are currently running.
func (e *Engine) scheduled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cron != nil
}
