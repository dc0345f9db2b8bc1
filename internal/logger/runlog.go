package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunLog collects the log lines of a single pipeline run. Every publisher gets
// its own RunLog so lines never leak between runs.
type RunLog struct {
	id    string
	mu    sync.Mutex
	lines []string
	now   func() time.Time
}

// NewRunLog returns an empty log tagged with a fresh run id.
func NewRunLog() *RunLog {
	return &RunLog{
		id:  uuid.NewString(),
		now: time.Now,
	}
}

// ID returns the run id attached to every record as run_id.
func (l *RunLog) ID() string {
	return l.id
}

// Lines returns a copy of the recorded lines in arrival order.
func (l *RunLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// WriteTo writes every recorded line followed by a newline.
func (l *RunLog) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range l.Lines() {
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Logger returns a logger that records into l and forwards to next when it is
// not nil. Records below level are neither recorded nor forwarded.
func (l *RunLog) Logger(next slog.Handler, level slog.Leveler) *slog.Logger {
	if level == nil {
		level = slog.LevelDebug
	}
	h := &runLogHandler{log: l, next: next, level: level}
	return slog.New(h).With("run_id", l.id)
}

func (l *RunLog) append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

type runLogHandler struct {
	log    *RunLog
	next   slog.Handler
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

func (h *runLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *runLogHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf strings.Builder
	buf.WriteString(h.log.now().UTC().Format(time.RFC3339))
	buf.WriteString(" ")
	buf.WriteString(fmt.Sprintf("[%-5s]", r.Level.String()))
	buf.WriteString(" ")
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		if a.Key == "run_id" {
			continue
		}
		buf.WriteString(fmt.Sprintf(" %s=%s", a.Key, a.Value.Resolve().String()))
	}
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(fmt.Sprintf(" %s%s=%s", h.prefix, a.Key, a.Value.Resolve().String()))
		return true
	})
	h.log.append(buf.String())

	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *runLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(append([]slog.Attr{}, next.attrs...), a)
	}
	if h.next != nil {
		next.next = h.next.WithAttrs(attrs)
	}
	return &next
}

func (h *runLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	if h.next != nil {
		next.next = h.next.WithGroup(name)
	}
	return &next
}
