package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"ftpmirror/internal/config"
	"ftpmirror/internal/fileutil"
	"ftpmirror/internal/oplog"
	"ftpmirror/internal/remote"
	"ftpmirror/internal/store"
)

// phase tracks what a worker is doing right now, for status derivation.
type phase int32

const (
	phaseIdle phase = iota
	phaseConnecting
	phaseTransferring
)

// worker drives the ingestion lifecycle of one monitored folder. Each
// cycle dials a fresh session, lists the remote directory and downloads
// every regular file into the local mirror.
type worker struct {
	folder config.Folder
	server config.Server

	dial  DialFunc
	files *store.Store
	log   *oplog.Log

	// busy is held for the duration of one cycle. A tick that cannot
	// take it immediately is skipped, never queued.
	busy  sync.Mutex
	phase atomic.Int32

	mu   sync.Mutex
	last *CycleResult
}

func newWorker(folder config.Folder, server config.Server, files *store.Store, log *oplog.Log, dial DialFunc) *worker {
	return &worker{
		folder: folder,
		server: server,
		dial:   dial,
		files:  files,
		log:    log,
	}
}

// tick runs one cycle unless the previous one is still in flight.
func (w *worker) tick() {
	if !w.busy.TryLock() {
		w.log.Appendf(oplog.SeverityInfo, "[%s] previous cycle still running, tick skipped", w.folder.Name)
		return
	}
	defer w.busy.Unlock()
	w.runCycle()
}

// runNow runs one cycle, waiting for any in-flight cycle to finish first.
// Used for explicit run requests, which must not be dropped.
func (w *worker) runNow() CycleResult {
	w.busy.Lock()
	defer w.busy.Unlock()
	return w.runCycle()
}

func (w *worker) runCycle() CycleResult {
	result := CycleResult{
		FolderID:   w.folder.ID,
		FolderName: w.folder.Name,
		Started:    time.Now(),
	}
	defer w.phase.Store(int32(phaseIdle))

	w.phase.Store(int32(phaseConnecting))
	conn, err := w.dial(w.server)
	if err != nil {
		w.log.Appendf(oplog.SeverityError, "[%s] connect to %s failed: %v", w.folder.Name, w.server.Addr(), err)
		return w.finish(result, err)
	}
	defer conn.Close()

	w.phase.Store(int32(phaseTransferring))
	if err := conn.ChangeDir(w.folder.RemotePath); err != nil {
		w.log.Appendf(oplog.SeverityError, "[%s] remote folder %s: %v", w.folder.Name, w.folder.RemotePath, err)
		return w.finish(result, err)
	}

	entries, err := conn.List()
	if err != nil {
		w.log.Appendf(oplog.SeverityError, "[%s] listing %s failed: %v", w.folder.Name, w.folder.RemotePath, err)
		return w.finish(result, err)
	}

	for _, entry := range entries {
		result.Outcomes = append(result.Outcomes, w.processEntry(conn, entry))
	}

	severity := oplog.SeveritySuccess
	if result.Failed() > 0 {
		severity = oplog.SeverityWarning
	}
	w.log.Appendf(severity, "[%s] cycle complete: %d downloaded, %d failed, %d skipped",
		w.folder.Name, result.Downloaded(), result.Failed(), len(result.Outcomes)-result.Downloaded()-result.Failed())
	return w.finish(result, nil)
}

// processEntry downloads one listing entry, or records why it was skipped.
// A failing entry never aborts the rest of the cycle.
func (w *worker) processEntry(conn remote.Conn, entry remote.Entry) Outcome {
	switch entry.Kind {
	case remote.KindDir:
		w.log.Appendf(oplog.SeverityInfo, "[%s] skipped directory %s", w.folder.Name, entry.Name)
		return Outcome{Name: entry.Name, Status: OutcomeSkippedDirectory}
	case remote.KindOther:
		w.log.Appendf(oplog.SeverityWarning, "[%s] skipped %s: not a regular file", w.folder.Name, entry.Name)
		return Outcome{Name: entry.Name, Status: OutcomeSkippedUnknown}
	}

	data, err := conn.Fetch(entry.Name)
	if err != nil {
		w.log.Appendf(oplog.SeverityError, "[%s] download of %s failed: %v", w.folder.Name, entry.Name, err)
		return Outcome{Name: entry.Name, Status: OutcomeDownloadFailed, Detail: err.Error()}
	}

	path, err := w.files.Write(w.folder.Name, entry.Name, data)
	if err != nil {
		w.log.Appendf(oplog.SeverityError, "[%s] storing %s failed: %v", w.folder.Name, entry.Name, err)
		return Outcome{Name: entry.Name, Status: OutcomeDownloadFailed, Detail: err.Error()}
	}

	checksum := fileutil.Checksum(data)
	w.log.Appendf(oplog.SeveritySuccess, "[%s] downloaded %s (%s, sha256 %s) to %s",
		w.folder.Name, entry.Name, fileutil.FormatSize(int64(len(data))), fileutil.ShortChecksum(checksum), path)
	return Outcome{
		Name:     entry.Name,
		Status:   OutcomeDownloaded,
		Size:     int64(len(data)),
		Checksum: checksum,
	}
}

func (w *worker) finish(result CycleResult, err error) CycleResult {
	result.Err = err
	result.Finished = time.Now()

	w.mu.Lock()
	stored := result.clone()
	w.last = &stored
	w.mu.Unlock()
	return result
}

// lastResult returns a copy of the most recent completed cycle.
func (w *worker) lastResult() (CycleResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return CycleResult{}, false
	}
	return w.last.clone(), true
}

func (w *worker) currentPhase() phase {
	return phase(w.phase.Load())
}
