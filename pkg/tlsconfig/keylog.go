package tlsconfig

import (
	"io"
	"os"
	"sync"

	"github.com/hsguild/warden/pkg/werr"
)

// sslKeyLogEnv is the conventional environment variable Wireshark and
// browsers already look for; --tls-key-log with no path falls back to it.
const sslKeyLogEnv = "SSLKEYLOGFILE"

// ResolveKeyLogPath applies --tls-key-log's "flag present with no
// value" convention: flagPath wins if set, otherwise SSLKEYLOGFILE,
// otherwise logging stays off.
func ResolveKeyLogPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(sslKeyLogEnv)
}

// keyLogWriter serializes writes to the underlying file. crypto/tls
// can invoke KeyLogWriter.Write concurrently from different
// connections' handshake goroutines; os.File offers no atomicity
// guarantee across concurrent appends, so every write is taken under
// a mutex the way the original's KeyLogFile wraps its file in a Mutex.
type keyLogWriter struct {
	mu   sync.Mutex
	file *os.File
}

// NewKeyLogWriter opens (creating if necessary) path for appending
// and returns an io.WriteCloser suitable for tls.Config.KeyLogWriter.
func NewKeyLogWriter(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, werr.Wrap(werr.IoFailure, err, "open tls key log file")
	}
	return &keyLogWriter{file: f}, nil
}

func (w *keyLogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Write(p)
}

func (w *keyLogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
