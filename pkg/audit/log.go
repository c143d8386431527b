package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"

	"github.com/hsguild/warden/pkg/werr"
)

// Entry is one committed resource state change. Field order here is
// the wire order: sequence, timestamp, machine, state. Seq is drawn
// from the resource registry's index side-car, so it stays monotonic
// across restarts even though the audit log itself is append-only and
// never rewritten.
type Entry struct {
	Seq       uint64 `json:"seq"`
	Timestamp int64  `json:"timestamp"`
	Machine   string `json:"machine"`
	State     string `json:"state"`
}

// Log is an append-only writer over a single file. All writes are
// serialized by mu; a failed write is surfaced to the caller and the
// log is left exactly as far advanced as the OS actually flushed it.
type Log struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

// Open opens (creating if necessary) the audit log file at path for
// appending.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "open audit log")
	}
	return &Log{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one entry followed by a newline and flushes
// immediately, so a crash right after Append returns nil never loses
// the line.
func (l *Log) Append(e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return werr.Wrap(werr.IoFailure, err, "encode audit entry")
	}
	raw = append(raw, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(raw); err != nil {
		return werr.Wrap(werr.IoFailure, err, "write audit entry")
	}
	if err := l.w.Flush(); err != nil {
		return werr.Wrap(werr.IoFailure, err, "flush audit entry")
	}
	return nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.w.Flush(); err != nil {
		l.f.Close()
		return werr.Wrap(werr.IoFailure, err, "flush audit log on close")
	}
	if err := l.f.Close(); err != nil {
		return werr.Wrap(werr.IoFailure, err, "close audit log")
	}
	return nil
}
