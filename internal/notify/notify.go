// Package notify keeps the short-lived messages shown in the console's toast
// stack. Messages expire on their own after TTL; the UI schedules a tick per
// message and calls Expire when it fires.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TTL is how long a notification stays visible.
const TTL = 3800 * time.Millisecond

// Level selects the notification style.
type Level string

const (
	LevelOK      Level = "ok"
	LevelErr     Level = "err"
	LevelNeutral Level = ""
)

// Notification is one visible message.
type Notification struct {
	ID        string
	Text      string
	Level     Level
	CreatedAt time.Time
}

// ExpiresAt is when the notification should disappear.
func (n Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(TTL)
}

// Notifier is the write side used by controllers.
type Notifier interface {
	Push(text string, level Level) Notification
}

// Channel is an ordered, concurrency-safe list of notifications. The zero
// value is not usable; call NewChannel.
type Channel struct {
	mu    sync.Mutex
	items []Notification
	now   func() time.Time
}

// Ensure Channel implements Notifier at compile time.
var _ Notifier = (*Channel)(nil)

// NewChannel returns an empty channel using the wall clock.
func NewChannel() *Channel {
	return &Channel{now: time.Now}
}

// WithClock replaces the clock, for tests.
func (c *Channel) WithClock(now func() time.Time) *Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Push appends a message and returns it. Empty text is still recorded.
func (c *Channel) Push(text string, level Level) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := Notification{
		ID:        uuid.NewString(),
		Text:      text,
		Level:     level,
		CreatedAt: c.now(),
	}
	c.items = append(c.items, n)
	return n
}

// Expire removes the notification with id. Unknown ids are ignored.
func (c *Channel) Expire(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Prune drops every notification that has expired at now.
func (c *Channel) Prune(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.ExpiresAt()) {
			kept = append(kept, n)
		}
	}
	c.items = kept
}

// Active returns the visible notifications, oldest first.
func (c *Channel) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Texts returns the visible messages in order.
func (c *Channel) Texts() []string {
	active := c.Active()
	out := make([]string, len(active))
	for i, n := range active {
		out[i] = n.Text
	}
	return out
}
