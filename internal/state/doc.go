// Package state holds the console state shared across views.
//
// # Overview
//
// A single Store is created by the composition root and injected into every
// controller. It records which tab is visible, the jobs pager position, the
// active status filter, the server-reported total for that filter, and API
// reachability. Controllers read it when building requests; the orchestrator
// reads the tab when a scrape run finishes to decide which view to refresh.
//
//	UI (key press)            Controllers / tasks
//	┌────────────────┐        ┌───────────────────┐
//	│ store.SetTab() │        │ store.Snapshot()  │
//	│ store.NextPage │──────→ │ ListJobs(...)     │
//	│      ↓         │ (mutex)│ store.SetTotal()  │
//	│ render(snap)   │←────── │ store.RecordResult│
//	└────────────────┘        └───────────────────┘
//
// # Concurrency Model
//
// Tasks complete on tea.Cmd goroutines while the UI renders from the
// bubbletea loop, so the Store guards its fields with a sync.RWMutex.
// Snapshot returns a value copy; the error is re-wrapped so callers never
// share the stored instance.
//
// # Write Semantics
//
// Writes do not validate, with two exceptions:
//
//   - SetFilter resets Page to 0
//   - PrevPage never moves below 0
//
// # Pager
//
// Snapshot carries the pager rules used by the jobs view:
//
//	PrevDisabled()        page == 0
//	NextDisabled(shown)   page*PageSize + shown >= total
//	Window(shown)         1-based row range for "Showing 51-100 of 120"
package state
