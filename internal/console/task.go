package console

import (
	"context"
	"errors"
	"sync"

	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

// Task is the asynchronous half of a controller operation.
type Task func(ctx context.Context) error

// Run executes t, tolerating a nil task.
func (t Task) Run(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t(ctx)
}

// Refresher is implemented by every view controller.
type Refresher interface {
	Refresh() Task
}

// Trigger is a control that starts a scrape run and must be disabled while
// the run is in flight.
type Trigger interface {
	SetDisabled(disabled bool)
	Disabled() bool
}

// Button is the in-memory Trigger rendered by the UI.
type Button struct {
	mu       sync.Mutex
	label    string
	disabled bool
}

// NewButton returns an enabled button.
func NewButton(label string) *Button {
	return &Button{label: label}
}

// Label is the text shown on the control.
func (b *Button) Label() string {
	return b.label
}

// SetDisabled enables or disables the control.
func (b *Button) SetDisabled(disabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disabled = disabled
}

// Disabled reports whether the control currently rejects presses.
func (b *Button) Disabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled
}

// recordResult feeds API reachability into the shared store. Application
// errors mean the server answered, so they count as reachable.
func recordResult(store *state.Store, err error) {
	var httpErr *reqhunter.HTTPError
	if errors.As(err, &httpErr) {
		err = nil
	}
	store.RecordResult(err)
}
