package console

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

type countingRefresher struct {
	mu    sync.Mutex
	count int
}

func (c *countingRefresher) Refresh() Task {
	return func(context.Context) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.count++
		return nil
	}
}

func (c *countingRefresher) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// recordingTrigger logs every SetDisabled call.
type recordingTrigger struct {
	Button
	mu      sync.Mutex
	history []bool
}

func (r *recordingTrigger) SetDisabled(disabled bool) {
	r.mu.Lock()
	r.history = append(r.history, disabled)
	r.mu.Unlock()
	r.Button.SetDisabled(disabled)
}

type orchestratorFixture struct {
	*harness
	orch  *Orchestrator
	views map[state.Tab]*countingRefresher
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	h := newHarness(t)
	views := map[state.Tab]*countingRefresher{
		state.TabJobs:     {},
		state.TabSources:  {},
		state.TabLogs:     {},
		state.TabSchedule: {},
	}
	refreshers := make(map[state.Tab]Refresher, len(views))
	for tab, v := range views {
		refreshers[tab] = v
	}
	return &orchestratorFixture{
		harness: h,
		orch:    NewOrchestrator(h.api, h.store, h.notes, refreshers),
		views:   views,
	}
}

func TestSummary_Pluralization(t *testing.T) {
	tests := []struct {
		jobs, sources int
		want          string
	}{
		{0, 0, "0 new jobs across 0 sources"},
		{1, 1, "1 new job across 1 source"},
		{1, 3, "1 new job across 3 sources"},
		{3, 1, "3 new jobs across 1 source"},
		{3, 2, "3 new jobs across 2 sources"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Summary(reqhunter.ScrapeResult{JobsNew: tt.jobs, SourcesProcessed: tt.sources})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrchestrator_RunAllRefreshesVisibleJobsView(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.api.runScrape = func(path string) (reqhunter.ScrapeResult, error) {
		return reqhunter.ScrapeResult{JobsNew: 3, SourcesProcessed: 2, Errors: []string{"timeout on X"}}, nil
	}

	task := f.orch.RunAll()
	require.NotNil(t, task)
	assert.True(t, f.orch.RunAllButton().Disabled())
	assert.Equal(t, "Scraping…", f.orch.Status())

	require.NoError(t, task.Run(context.Background()))

	assert.Equal(t, []string{"RunScrape /scrape/run"}, f.api.Calls())
	assert.Equal(t, []string{"3 new jobs across 2 sources", "timeout on X"}, f.notes.Texts())
	assert.Equal(t, []notify.Level{notify.LevelOK, notify.LevelErr}, f.levels())
	assert.Equal(t, 1, f.views[state.TabJobs].Count())
	assert.Zero(t, f.views[state.TabSources].Count())
	assert.Zero(t, f.views[state.TabLogs].Count())
	assert.Empty(t, f.orch.Status())
	assert.False(t, f.orch.RunAllButton().Disabled())
}

func TestOrchestrator_RefreshFollowsTabAtCompletion(t *testing.T) {
	f := newOrchestratorFixture(t)

	task := f.orch.RunAll()
	f.store.SetTab(state.TabLogs)
	require.NoError(t, task.Run(context.Background()))

	assert.Equal(t, 1, f.views[state.TabLogs].Count())
	assert.Zero(t, f.views[state.TabJobs].Count())
}

func TestOrchestrator_FailureNotifiesAndReenables(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.api.runScrape = func(string) (reqhunter.ScrapeResult, error) {
		return reqhunter.ScrapeResult{}, &reqhunter.HTTPError{Status: 500, Message: "scraper crashed"}
	}
	trigger := &recordingTrigger{}

	task := f.orch.RunScrape(reqhunter.RunSourcePath(7), trigger)
	require.Error(t, task.Run(context.Background()))

	assert.Equal(t, []string{"Scrape failed: scraper crashed"}, f.notes.Texts())
	assert.Equal(t, []bool{true, false}, trigger.history)
	assert.False(t, f.orch.RunAllButton().Disabled())
	assert.Empty(t, f.orch.Status())
	assert.Zero(t, f.views[state.TabJobs].Count())
}

func TestOrchestrator_ReenablesExactlyOnceOnSuccess(t *testing.T) {
	f := newOrchestratorFixture(t)
	trigger := &recordingTrigger{}

	require.NoError(t, f.orch.RunScrape(reqhunter.RunSourcePath(7), trigger).Run(context.Background()))
	assert.Equal(t, []bool{true, false}, trigger.history)
}

func TestOrchestrator_RejectsOverlappingRuns(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	first := f.orch.RunAll()
	require.NotNil(t, first)
	trigger := &recordingTrigger{}
	assert.Nil(t, f.orch.RunScrape(reqhunter.RunSourcePath(7), trigger))
	assert.Nil(t, f.orch.RunAll())
	assert.Empty(t, trigger.history, "rejected run leaves trigger alone")

	require.NoError(t, first.Run(ctx))
	assert.NotNil(t, f.orch.RunAll())
}

func TestOrchestrator_SourceRowRun(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.api.listSources = func() ([]reqhunter.Source, error) {
		return []reqhunter.Source{{ID: 7, Name: "Acme"}}, nil
	}
	f.api.runScrape = func(string) (reqhunter.ScrapeResult, error) {
		return reqhunter.ScrapeResult{JobsNew: 1, SourcesProcessed: 1}, nil
	}
	sources := NewSources(f.api, f.store, f.notes)
	sources.OnRun(f.orch.HandleRun)
	ctx := context.Background()
	require.NoError(t, sources.Refresh().Run(ctx))

	task := sources.Run(7)
	require.NotNil(t, task)
	assert.True(t, sources.Snapshot().Rows[0].Running)
	assert.True(t, f.orch.Running())

	require.NoError(t, task.Run(ctx))
	assert.False(t, sources.Snapshot().Rows[0].Running)
	assert.Contains(t, f.api.Calls(), "RunScrape /scrape/run/7")
	assert.Equal(t, []string{"1 new job across 1 source"}, f.notes.Texts())
}

func TestOrchestrator_RefreshErrorDoesNotFailRun(t *testing.T) {
	h := newHarness(t)
	h.api.listJobs = func(reqhunter.JobQuery) (reqhunter.JobListResponse, error) {
		return reqhunter.JobListResponse{}, errors.New("execute request: EOF")
	}
	jobs := NewJobs(h.api, h.store, h.notes)
	orch := NewOrchestrator(h.api, h.store, h.notes, map[state.Tab]Refresher{state.TabJobs: jobs})

	require.NoError(t, orch.RunAll().Run(context.Background()))
	assert.Equal(t, []string{"0 new jobs across 0 sources", "Failed to load jobs: execute request: EOF"}, h.notes.Texts())
}
