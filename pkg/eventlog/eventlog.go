// Package eventlog provides the kiosk's structured logger. Records go to a
// JSON log file (stdout belongs to the terminal UI) and to a bounded
// in-memory ring that feeds the debug overlay.
package eventlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultRingSize bounds the number of records kept for the overlay.
const DefaultRingSize = 128

// Logger wraps slog with an overlay ring. All methods are safe on a nil
// receiver so components can treat logging as optional.
type Logger struct {
	sl     *slog.Logger
	ring   *ring
	closer io.Closer
}

// New builds a Logger writing JSON records to w.
func New(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{
		sl:   slog.New(handler),
		ring: newRing(DefaultRingSize),
	}
}

// Open creates (or appends to) a log file at path and returns a Logger over
// it. Parent directories are created as needed.
func Open(path, level string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("eventlog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open log file: %w", err)
	}
	l := New(f, level)
	l.closer = f
	return l, nil
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// With returns a Logger whose records carry the given attrs. The overlay
// ring is shared with the parent so the debug view stays unified.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sl: l.sl.With(args...), ring: l.ring, closer: nil}
}

func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if l == nil {
		return
	}
	l.sl.Log(context.Background(), level, msg, args...)
	l.ring.add(formatRecord(time.Now(), level, msg, args))
}

// Tail returns up to n of the most recent formatted records, oldest first.
func (l *Logger) Tail(n int) []string {
	if l == nil {
		return nil
	}
	return l.ring.tail(n)
}

func formatRecord(at time.Time, level slog.Level, msg string, args []any) string {
	var b strings.Builder
	b.WriteString(at.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	if len(args)%2 == 1 {
		fmt.Fprintf(&b, " %v", args[len(args)-1])
	}
	return b.String()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ring is a fixed-capacity buffer of formatted records.
type ring struct {
	mu    sync.Mutex
	buf   []string
	next  int
	count int
}

func newRing(size int) *ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &ring{buf: make([]string, size)}
}

func (r *ring) add(line string) {
	r.mu.Lock()
	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	r.mu.Unlock()
}

func (r *ring) tail(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	start := r.next - n
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < n; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}
