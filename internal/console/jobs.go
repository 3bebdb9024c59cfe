package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

// Jobs drives the paginated, filterable job list.
type Jobs struct {
	api   reqhunter.API
	store *state.Store
	notes notify.Notifier

	mu        sync.Mutex
	seq       uint64
	rows      []reqhunter.Job
	loaded    bool
	loading   bool
	detail    *reqhunter.Job
	detailSeq uint64
}

// JobsSnapshot is what the jobs view renders.
type JobsSnapshot struct {
	Rows    []reqhunter.Job
	Loaded  bool // at least one page has been fetched
	Loading bool
	Detail  *reqhunter.Job
	Pager   state.Snapshot
}

// Empty reports whether a fetch completed with no rows.
func (s JobsSnapshot) Empty() bool {
	return s.Loaded && len(s.Rows) == 0
}

// NewJobs wires a jobs controller.
func NewJobs(api reqhunter.API, store *state.Store, notes notify.Notifier) *Jobs {
	return &Jobs{api: api, store: store, notes: notes}
}

// Snapshot returns a copy of the rows and pager state.
func (j *Jobs) Snapshot() JobsSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows := make([]reqhunter.Job, len(j.rows))
	copy(rows, j.rows)
	var detail *reqhunter.Job
	if j.detail != nil {
		d := *j.detail
		detail = &d
	}
	return JobsSnapshot{
		Rows:    rows,
		Loaded:  j.loaded,
		Loading: j.loading,
		Detail:  detail,
		Pager:   j.store.Snapshot(),
	}
}

// Refresh fetches the page selected by the current filter and pager. The
// query is fixed when Refresh is called, not when the task runs.
func (j *Jobs) Refresh() Task {
	snap := j.store.Snapshot()
	query := reqhunter.JobQuery{
		Limit:  state.PageSize,
		Offset: snap.Offset(),
		Status: snap.Filter,
	}

	j.mu.Lock()
	j.seq++
	seq := j.seq
	j.loading = true
	j.mu.Unlock()

	return func(ctx context.Context) error {
		page, err := j.api.ListJobs(ctx, query)
		recordResult(j.store, err)

		j.mu.Lock()
		defer j.mu.Unlock()
		if seq != j.seq {
			return nil
		}
		j.loading = false
		if err != nil {
			j.notes.Push("Failed to load jobs: "+err.Error(), notify.LevelErr)
			return fmt.Errorf("list jobs: %w", err)
		}
		j.rows = page.Items
		j.loaded = true
		j.store.SetTotal(page.Total)
		return nil
	}
}

// SelectFilter switches the status filter, which always returns to page 0.
func (j *Jobs) SelectFilter(filter reqhunter.JobStatus) Task {
	j.store.SetFilter(filter)
	return j.Refresh()
}

// NextPage advances the pager when the next control is enabled. The pager
// is frozen while a fetch is in flight, since total and rows may still
// describe the previous filter or page.
func (j *Jobs) NextPage() Task {
	j.mu.Lock()
	shown := len(j.rows)
	loading := j.loading
	j.mu.Unlock()

	if loading || j.store.Snapshot().NextDisabled(shown) {
		return nil
	}
	j.store.NextPage()
	return j.Refresh()
}

// PrevPage moves back one page when the previous control is enabled.
func (j *Jobs) PrevPage() Task {
	j.mu.Lock()
	loading := j.loading
	j.mu.Unlock()

	if loading || j.store.Snapshot().PrevDisabled() {
		return nil
	}
	j.store.PrevPage()
	return j.Refresh()
}

// ChangeStatus updates the row immediately and confirms with the server,
// even when the status is unchanged. A failed update restores the previous
// status.
func (j *Jobs) ChangeStatus(id int64, status reqhunter.JobStatus) Task {
	j.mu.Lock()
	idx := j.indexOf(id)
	if idx < 0 {
		j.mu.Unlock()
		return nil
	}
	previous := j.rows[idx].Status
	j.rows[idx].Status = status
	j.mu.Unlock()

	return func(ctx context.Context) error {
		err := j.api.UpdateJobStatus(ctx, id, status)
		recordResult(j.store, err)
		if err != nil {
			j.restoreStatus(id, status, previous)
			j.notes.Push("Update failed", notify.LevelErr)
			return fmt.Errorf("update job %d: %w", id, err)
		}
		j.notes.Push("Marked as "+string(status), notify.LevelOK)
		return nil
	}
}

// restoreStatus rolls a row back unless it has been changed again or
// replaced by a refresh since.
func (j *Jobs) restoreStatus(id int64, attempted, previous reqhunter.JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if idx := j.indexOf(id); idx >= 0 && j.rows[idx].Status == attempted {
		j.rows[idx].Status = previous
	}
}

// Inspect loads one posting for the detail pane.
func (j *Jobs) Inspect(id int64) Task {
	j.mu.Lock()
	j.detailSeq++
	seq := j.detailSeq
	j.mu.Unlock()

	return func(ctx context.Context) error {
		job, err := j.api.FetchJob(ctx, id)
		recordResult(j.store, err)

		j.mu.Lock()
		defer j.mu.Unlock()
		if seq != j.detailSeq {
			return nil
		}
		if err != nil {
			j.notes.Push("Failed to load job: "+err.Error(), notify.LevelErr)
			return fmt.Errorf("fetch job %d: %w", id, err)
		}
		j.detail = &job
		return nil
	}
}

// CloseDetail hides the detail pane and drops any pending Inspect result.
func (j *Jobs) CloseDetail() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.detailSeq++
	j.detail = nil
}

func (j *Jobs) indexOf(id int64) int {
	for i, row := range j.rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}
