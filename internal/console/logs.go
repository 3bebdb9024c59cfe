package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

const (
	// DefaultLogLimit is used when the line-count input is empty or invalid.
	DefaultLogLimit = 200
	// MaxLogLimit caps the line-count input.
	MaxLogLimit = 2000
)

// LogsState describes what the logs pane shows.
type LogsState int

const (
	LogsUnfetched LogsState = iota
	LogsLoading
	LogsEmpty
	LogsLoaded
	LogsFailed
)

// Placeholder returns the text shown instead of log lines, or "" when lines
// are loaded.
func (s LogsState) Placeholder() string {
	switch s {
	case LogsUnfetched:
		return "No logs loaded yet."
	case LogsLoading:
		return "Loading logs..."
	case LogsEmpty:
		return "No logs yet."
	case LogsFailed:
		return "Failed to load logs."
	default:
		return ""
	}
}

// CoerceLogLimit turns the raw line-count input into a request limit.
func CoerceLogLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultLogLimit
	}
	if n > MaxLogLimit {
		return MaxLogLimit
	}
	return n
}

// LogsSnapshot is what the logs view renders.
type LogsSnapshot struct {
	State LogsState
	Lines []string
	Limit int
}

// Text returns the lines newline-joined, or the state placeholder.
func (s LogsSnapshot) Text() string {
	if s.State == LogsLoaded {
		return strings.Join(s.Lines, "\n")
	}
	return s.State.Placeholder()
}

// Logs drives the application log tail.
type Logs struct {
	api   reqhunter.API
	store *state.Store
	notes notify.Notifier

	mu    sync.Mutex
	seq   uint64
	limit int
	state LogsState
	lines []string
}

// NewLogs wires a logs controller. A non-positive limit uses the default.
func NewLogs(api reqhunter.API, store *state.Store, notes notify.Notifier, limit int) *Logs {
	return &Logs{
		api:   api,
		store: store,
		notes: notes,
		limit: CoerceLogLimit(strconv.Itoa(limit)),
	}
}

// SetLimitInput applies the raw line-count input and returns the effective limit.
func (l *Logs) SetLimitInput(raw string) int {
	limit := CoerceLogLimit(raw)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = limit
	return limit
}

// Limit returns the effective line count.
func (l *Logs) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

// Snapshot returns a copy of the pane state.
func (l *Logs) Snapshot() LogsSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines := make([]string, len(l.lines))
	copy(lines, l.lines)
	return LogsSnapshot{State: l.state, Lines: lines, Limit: l.limit}
}

// Refresh requests the most recent lines up to the current limit.
func (l *Logs) Refresh() Task {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	limit := l.limit
	l.state = LogsLoading
	l.mu.Unlock()

	return func(ctx context.Context) error {
		lines, err := l.api.FetchLogs(ctx, limit)
		recordResult(l.store, err)

		l.mu.Lock()
		defer l.mu.Unlock()
		if seq != l.seq {
			return nil
		}
		if err != nil {
			l.state = LogsFailed
			l.lines = nil
			l.notes.Push("Failed to load logs: "+err.Error(), notify.LevelErr)
			return fmt.Errorf("fetch logs: %w", err)
		}
		l.lines = lines
		if len(lines) == 0 {
			l.state = LogsEmpty
		} else {
			l.state = LogsLoaded
		}
		return nil
	}
}
