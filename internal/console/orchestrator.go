package console

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

// ScrapingStatus is shown while a run is in flight.
const ScrapingStatus = "Scraping…"

// Orchestrator runs scrapes and routes the follow-up refresh to whichever
// view is visible when the run finishes.
type Orchestrator struct {
	api    reqhunter.API
	store  *state.Store
	notes  notify.Notifier
	global *Button
	views  map[state.Tab]Refresher

	mu     sync.Mutex
	status string
}

// NewOrchestrator wires the orchestrator. views maps each tab to the
// controller refreshed after a run while that tab is visible.
func NewOrchestrator(api reqhunter.API, store *state.Store, notes notify.Notifier, views map[state.Tab]Refresher) *Orchestrator {
	return &Orchestrator{
		api:    api,
		store:  store,
		notes:  notes,
		global: NewButton("Run all"),
		views:  views,
	}
}

// RunAllButton is the global trigger.
func (o *Orchestrator) RunAllButton() *Button {
	return o.global
}

// Status returns the transient status line.
func (o *Orchestrator) Status() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Running reports whether a scrape is in flight.
func (o *Orchestrator) Running() bool {
	return o.global.Disabled()
}

// RunAll scrapes every active source.
func (o *Orchestrator) RunAll() Task {
	return o.RunScrape(reqhunter.RunAllPath, nil)
}

// HandleRun adapts per-source run requests to RunScrape.
func (o *Orchestrator) HandleRun(req RunRequest) Task {
	return o.RunScrape(req.Path, req.Trigger)
}

// RunScrape disables the global control and trigger (if any), then returns
// the task that posts to path. Both controls are re-enabled exactly once when
// the task ends, whatever the outcome. While another run is in flight the
// call is rejected and returns nil.
func (o *Orchestrator) RunScrape(path string, trigger Trigger) Task {
	o.mu.Lock()
	if o.global.Disabled() {
		o.mu.Unlock()
		return nil
	}
	o.global.SetDisabled(true)
	if trigger != nil {
		trigger.SetDisabled(true)
	}
	o.status = ScrapingStatus
	o.mu.Unlock()

	log.Printf("[scrape] starting %s", path)

	return func(ctx context.Context) error {
		defer func() {
			o.global.SetDisabled(false)
			if trigger != nil {
				trigger.SetDisabled(false)
			}
		}()

		result, err := o.api.RunScrape(ctx, path)
		recordResult(o.store, err)
		o.setStatus("")
		if err != nil {
			log.Printf("[scrape] %s failed: %v", path, err)
			o.notes.Push("Scrape failed: "+err.Error(), notify.LevelErr)
			return fmt.Errorf("run scrape %s: %w", path, err)
		}

		log.Printf("[scrape] %s done: %d new, %d found, %d source(s), %d error(s)",
			path, result.JobsNew, result.JobsFound, result.SourcesProcessed, len(result.Errors))
		o.notes.Push(Summary(result), notify.LevelOK)
		for _, msg := range result.Errors {
			o.notes.Push(msg, notify.LevelErr)
		}

		tab := o.store.Tab()
		if view := o.views[tab]; view != nil {
			if err := view.Refresh().Run(ctx); err != nil {
				log.Printf("[scrape] refresh %s view: %v", tab, err)
			}
		}
		return nil
	}
}

func (o *Orchestrator) setStatus(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = status
}

// Summary renders the run outcome, e.g. "1 new job across 3 sources".
func Summary(r reqhunter.ScrapeResult) string {
	return fmt.Sprintf("%d new %s across %d %s",
		r.JobsNew, plural(r.JobsNew, "job"),
		r.SourcesProcessed, plural(r.SourcesProcessed, "source"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
