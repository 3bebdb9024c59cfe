package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/reqdeck/internal/reqhunter"
)

// PageSize is the number of jobs requested per page.
const PageSize = 50

// Tab identifies the visible view.
type Tab string

const (
	TabJobs     Tab = "jobs"
	TabSources  Tab = "sources"
	TabLogs     Tab = "logs"
	TabSchedule Tab = "schedule"
)

// Tabs lists the views in navigation order.
var Tabs = []Tab{TabJobs, TabSources, TabLogs, TabSchedule}

// ParseTab maps a persisted tab name back to a Tab, defaulting to jobs.
func ParseTab(name string) Tab {
	for _, t := range Tabs {
		if string(t) == name {
			return t
		}
	}
	return TabJobs
}

// Snapshot is a copy of the shared UI state at one point in time.
type Snapshot struct {
	Tab    Tab
	Page   int
	Filter reqhunter.JobStatus // empty means all statuses
	Total  int

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // consecutive failed API calls
}

// IsOffline returns true when the API has failed several calls in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Offset is the first row index of the current page.
func (s Snapshot) Offset() int {
	return s.Page * PageSize
}

// PrevDisabled reports whether the pager cannot move back.
func (s Snapshot) PrevDisabled() bool {
	return s.Page == 0
}

// NextDisabled reports whether the pager cannot move forward given the number
// of rows currently shown.
func (s Snapshot) NextDisabled(shown int) bool {
	return s.Offset()+shown >= s.Total
}

// Window returns the 1-based first and last row numbers of the shown page.
// Both are zero when nothing is shown.
func (s Snapshot) Window(shown int) (start, end int) {
	if shown <= 0 {
		return 0, 0
	}
	start = s.Offset() + 1
	end = start + shown - 1
	if s.Total > 0 && end > s.Total {
		end = s.Total
	}
	return start, end
}

// Store holds the console's cross-view state. One Store is created at startup
// and handed to every controller. Writes perform no validation beyond what
// each method documents; callers clamp.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a store with the startup defaults (jobs tab, first page, no filter).
func NewStore() *Store {
	return &Store{snapshot: Snapshot{Tab: TabJobs}}
}

// SetTab switches the visible view.
func (s *Store) SetTab(tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Tab = tab
}

// SetFilter selects a status filter and resets the pager to the first page.
func (s *Store) SetFilter(filter reqhunter.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Filter = filter
	s.snapshot.Page = 0
}

// SetPage moves the pager without bounds checks.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Page = page
}

// NextPage advances the pager by one.
func (s *Store) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Page++
}

// PrevPage moves the pager back by one, never below zero.
func (s *Store) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Page > 0 {
		s.snapshot.Page--
	}
}

// SetTotal records the server-reported row count for the current filter.
func (s *Store) SetTotal(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Total = total
}

// RecordResult tracks API reachability. A nil err resets the failure count.
func (s *Store) RecordResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Tab returns the visible view.
func (s *Store) Tab() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Tab
}
