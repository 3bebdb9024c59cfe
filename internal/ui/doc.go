// Package ui is the reqdeck terminal interface, built on Bubble Tea.
//
// # Architecture
//
// The Model never talks to the API. Key presses call controller operations
// on the console package; each operation applies its local effect at once
// and returns a console.Task that the Model runs as a tea.Cmd. When a task
// finishes, Update resyncs every view from controller snapshots, so the
// screen always reflects controller state rather than a private copy.
//
//	key press ──→ controller op ──→ Task as tea.Cmd ──→ taskDoneMsg
//	                  │                                     │
//	                  └──── snapshot ←── syncViews() ←───────┘
//
// # Views
//
//   - jobs.go: filter pills, paginated table, detail pane
//   - sources.go, form.go: source list, create/edit form, delete confirmation
//   - logs.go: service or client log with level and text filters
//   - schedule.go: server-side scrape schedule
//   - header.go: status bar, tab bar, command bar, toasts
//
// # Background Work
//
// Three things arrive without a key press: the one-second UI tick that keeps
// relative timestamps current, the auto-refresh ticks from the cron poller
// (skipped while a scrape or text input is active), and one expiry tick per
// notification.
package ui
