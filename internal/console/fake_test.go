package console

import (
	"context"
	"sync"
	"testing"

	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

// fakeAPI records calls and answers from optional per-method hooks.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	listJobs       func(reqhunter.JobQuery) (reqhunter.JobListResponse, error)
	fetchJob       func(int64) (reqhunter.Job, error)
	updateStatus   func(int64, reqhunter.JobStatus) error
	listSources    func() ([]reqhunter.Source, error)
	fetchSource    func(int64) (reqhunter.Source, error)
	createSource   func(reqhunter.SourceInput) (reqhunter.Source, error)
	updateSource   func(int64, reqhunter.SourcePatch) error
	deleteSource   func(int64) error
	runScrape      func(string) (reqhunter.ScrapeResult, error)
	fetchLogs      func(int) ([]string, error)
	fetchSchedule  func() (reqhunter.Schedule, error)
	updateSchedule func(reqhunter.SchedulePatch) (reqhunter.Schedule, error)

	jobQueries   []reqhunter.JobQuery
	sourceInputs []reqhunter.SourceInput
	patches      []reqhunter.SourcePatch
	logLimits    []int
}

var _ reqhunter.API = (*fakeAPI)(nil)

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ListJobs(_ context.Context, q reqhunter.JobQuery) (reqhunter.JobListResponse, error) {
	f.record("ListJobs")
	f.mu.Lock()
	f.jobQueries = append(f.jobQueries, q)
	f.mu.Unlock()
	if f.listJobs == nil {
		return reqhunter.JobListResponse{}, nil
	}
	return f.listJobs(q)
}

func (f *fakeAPI) FetchJob(_ context.Context, id int64) (reqhunter.Job, error) {
	f.record("FetchJob")
	if f.fetchJob == nil {
		return reqhunter.Job{ID: id}, nil
	}
	return f.fetchJob(id)
}

func (f *fakeAPI) UpdateJobStatus(_ context.Context, id int64, status reqhunter.JobStatus) error {
	f.record("UpdateJobStatus")
	if f.updateStatus == nil {
		return nil
	}
	return f.updateStatus(id, status)
}

func (f *fakeAPI) ListSources(context.Context) ([]reqhunter.Source, error) {
	f.record("ListSources")
	if f.listSources == nil {
		return nil, nil
	}
	return f.listSources()
}

func (f *fakeAPI) FetchSource(_ context.Context, id int64) (reqhunter.Source, error) {
	f.record("FetchSource")
	if f.fetchSource == nil {
		return reqhunter.Source{ID: id}, nil
	}
	return f.fetchSource(id)
}

func (f *fakeAPI) CreateSource(_ context.Context, in reqhunter.SourceInput) (reqhunter.Source, error) {
	f.record("CreateSource")
	f.mu.Lock()
	f.sourceInputs = append(f.sourceInputs, in)
	f.mu.Unlock()
	if f.createSource == nil {
		return reqhunter.Source{ID: 99, Name: in.Name}, nil
	}
	return f.createSource(in)
}

func (f *fakeAPI) UpdateSource(_ context.Context, id int64, patch reqhunter.SourcePatch) error {
	f.record("UpdateSource")
	f.mu.Lock()
	f.patches = append(f.patches, patch)
	f.mu.Unlock()
	if f.updateSource == nil {
		return nil
	}
	return f.updateSource(id, patch)
}

func (f *fakeAPI) DeleteSource(_ context.Context, id int64) error {
	f.record("DeleteSource")
	if f.deleteSource == nil {
		return nil
	}
	return f.deleteSource(id)
}

func (f *fakeAPI) RunScrape(_ context.Context, path string) (reqhunter.ScrapeResult, error) {
	f.record("RunScrape " + path)
	if f.runScrape == nil {
		return reqhunter.ScrapeResult{}, nil
	}
	return f.runScrape(path)
}

func (f *fakeAPI) FetchLogs(_ context.Context, limit int) ([]string, error) {
	f.record("FetchLogs")
	f.mu.Lock()
	f.logLimits = append(f.logLimits, limit)
	f.mu.Unlock()
	if f.fetchLogs == nil {
		return nil, nil
	}
	return f.fetchLogs(limit)
}

func (f *fakeAPI) FetchSchedule(context.Context) (reqhunter.Schedule, error) {
	f.record("FetchSchedule")
	if f.fetchSchedule == nil {
		return reqhunter.Schedule{}, nil
	}
	return f.fetchSchedule()
}

func (f *fakeAPI) UpdateSchedule(_ context.Context, patch reqhunter.SchedulePatch) (reqhunter.Schedule, error) {
	f.record("UpdateSchedule")
	if f.updateSchedule == nil {
		return reqhunter.Schedule{}, nil
	}
	return f.updateSchedule(patch)
}

type harness struct {
	api   *fakeAPI
	store *state.Store
	notes *notify.Channel
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{api: &fakeAPI{}, store: state.NewStore(), notes: notify.NewChannel()}
}

func (h *harness) levels() []notify.Level {
	var out []notify.Level
	for _, n := range h.notes.Active() {
		out = append(out, n.Level)
	}
	return out
}

func strPtr(s string) *string { return &s }
