package console

import (
	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

// Console bundles the controllers that share one store and notifier.
type Console struct {
	Store        *state.Store
	Notes        *notify.Channel
	Jobs         *Jobs
	Sources      *Sources
	Logs         *Logs
	Schedule     *Schedule
	Orchestrator *Orchestrator
}

// New builds every controller around api and connects per-source run
// requests to the orchestrator. logLimit seeds the logs line count.
func New(api reqhunter.API, logLimit int) *Console {
	store := state.NewStore()
	notes := notify.NewChannel()

	c := &Console{
		Store:    store,
		Notes:    notes,
		Jobs:     NewJobs(api, store, notes),
		Sources:  NewSources(api, store, notes),
		Logs:     NewLogs(api, store, notes, logLimit),
		Schedule: NewSchedule(api, store, notes),
	}
	c.Orchestrator = NewOrchestrator(api, store, notes, map[state.Tab]Refresher{
		state.TabJobs:     c.Jobs,
		state.TabSources:  c.Sources,
		state.TabLogs:     c.Logs,
		state.TabSchedule: c.Schedule,
	})
	c.Sources.OnRun(c.Orchestrator.HandleRun)
	return c
}

// View returns the controller behind tab.
func (c *Console) View(tab state.Tab) Refresher {
	switch tab {
	case state.TabSources:
		return c.Sources
	case state.TabLogs:
		return c.Logs
	case state.TabSchedule:
		return c.Schedule
	default:
		return c.Jobs
	}
}

// SwitchTab makes tab visible and returns the refresh entering it triggers.
// The jobs list is only fetched at startup and by its own filter and pager
// controls, so returning to it does not refetch.
func (c *Console) SwitchTab(tab state.Tab) Task {
	c.Store.SetTab(tab)
	if tab == state.TabJobs {
		return nil
	}
	return c.View(tab).Refresh()
}

// RefreshVisible refreshes whichever view is showing.
func (c *Console) RefreshVisible() Task {
	return c.View(c.Store.Tab()).Refresh()
}
