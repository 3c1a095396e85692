// Package logx is the append-only log file used while the TUI owns the
// terminal. Lines look like "[tag] message".
package logx

import (
    "fmt"
    "io"
    "os"
    "path/filepath"
    "sync"
    "time"
)

const (
    Quiet = iota
    Info
    Debug
)

// Logger writes tagged lines to w when the message level is within
// verbosity. A nil *Logger discards everything.
type Logger struct {
    mu        sync.Mutex
    w         io.Writer
    closer    io.Closer
    verbosity int
}

// New wraps w.
func New(w io.Writer, verbosity int) *Logger {
    return &Logger{w: w, verbosity: verbosity}
}

// Open appends to path (created if missing) and writes a start banner.
// An empty path returns a nil Logger.
func Open(path, version string, verbosity int) (*Logger, error) {
    if path == "" {
        return nil, nil
    }
    if dir := filepath.Dir(path); dir != "." && dir != "" {
        _ = os.MkdirAll(dir, 0o755)
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
    if err != nil {
        return nil, err
    }
    _, _ = fmt.Fprintf(f, "=== mdpad %s started at %s ===\n", version, time.Now().Format(time.RFC3339))
    l := New(f, verbosity)
    l.closer = f
    return l, nil
}

// Infof logs at -v and above.
func (l *Logger) Infof(tag, format string, args ...any) { l.logf(Info, tag, format, args...) }

// Debugf logs at -vv.
func (l *Logger) Debugf(tag, format string, args ...any) { l.logf(Debug, tag, format, args...) }

// Errorf always logs, regardless of verbosity.
func (l *Logger) Errorf(tag, format string, args ...any) { l.logf(Quiet, tag, format, args...) }

func (l *Logger) logf(level int, tag, format string, args ...any) {
    if l == nil || l.w == nil || level > l.verbosity {
        return
    }
    l.mu.Lock()
    defer l.mu.Unlock()
    _, _ = fmt.Fprintf(l.w, "[%s] %s\n", tag, fmt.Sprintf(format, args...))
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
    if l == nil || l.closer == nil {
        return nil
    }
    return l.closer.Close()
}
