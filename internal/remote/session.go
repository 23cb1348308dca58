// Package remote speaks FTP to the monitored server. Sessions are
// transient: one is dialed at the start of an ingestion cycle and closed
// on every exit path. Failures are classified with sentinel errors so
// callers can tell connection problems from missing paths and transfer
// faults.
package remote

import (
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"time"

	"github.com/jlaffaye/ftp"

	"ftpmirror/internal/config"
)

// Classification sentinels, matched with errors.Is.
var (
	ErrConnect  = errors.New("connection failed")
	ErrNotFound = errors.New("remote path not found")
	ErrTransfer = errors.New("transfer failed")
)

// DialTimeout bounds the TCP connect and FTP handshake.
const DialTimeout = 15 * time.Second

// EntryKind classifies one entry of a remote listing.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
	KindOther
)

// String returns the lowercase label used in logs and tool output.
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "other"
	}
}

// Entry is one item of a remote directory listing.
type Entry struct {
	Name string
	Kind EntryKind
	Size int64
}

// Conn is the set of operations one ingestion cycle performs against a
// live session. *Session implements it.
type Conn interface {
	// ChangeDir moves the session to path. A missing path is reported
	// as ErrNotFound.
	ChangeDir(path string) error
	// List returns the entries of the current directory.
	List() ([]Entry, error)
	// Fetch downloads the named file from the current directory.
	Fetch(name string) ([]byte, error)
	// Close ends the session. Safe to call more than once.
	Close() error
}

// Session is one live FTP control connection.
type Session struct {
	conn   *ftp.ServerConn
	closed bool
}

// Dial connects to the configured server and logs in.
func Dial(srv config.Server) (*Session, error) {
	conn, err := ftp.Dial(srv.Addr(), ftp.DialWithTimeout(DialTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnect, srv.Addr(), err)
	}

	if err := conn.Login(srv.Username, srv.Password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("%w: login as %s: %v", ErrConnect, srv.Username, err)
	}

	return &Session{conn: conn}, nil
}

// ChangeDir moves the session to path.
func (s *Session) ChangeDir(path string) error {
	if err := s.conn.ChangeDir(path); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("%w: change directory to %s: %v", ErrTransfer, path, err)
	}
	return nil
}

// List returns the entries of the current directory, skipping the "."
// and ".." pseudo entries some servers include.
func (s *Session) List() ([]Entry, error) {
	raw, err := s.conn.List("")
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrTransfer, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		entries = append(entries, Entry{
			Name: e.Name,
			Kind: kindOf(e.Type),
			Size: int64(e.Size),
		})
	}
	return entries, nil
}

// Fetch downloads the named file from the current directory.
func (s *Session) Fetch(name string) ([]byte, error) {
	resp, err := s.conn.Retr(name)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: retrieve %s: %v", ErrTransfer, name, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrTransfer, name, err)
	}
	return data, nil
}

// Close sends QUIT and releases the connection.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Quit()
}

func kindOf(t ftp.EntryType) EntryKind {
	switch t {
	case ftp.EntryTypeFile:
		return KindFile
	case ftp.EntryTypeFolder:
		return KindDir
	default:
		return KindOther
	}
}

// isNotFound reports whether err is an FTP 550 reply, the code servers
// answer with for missing paths.
func isNotFound(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code == ftp.StatusFileUnavailable
	}
	return false
}
