package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StartPoller schedules auto-refresh ticks on spec and returns the channel
// they arrive on. Ticks are dropped while the previous one is unconsumed.
// An empty spec disables polling and returns a nil channel, which blocks
// forever. The scheduler stops when ctx is cancelled.
func StartPoller(ctx context.Context, spec string) (<-chan time.Time, error) {
	if spec == "" {
		return nil, nil
	}

	ticks := make(chan time.Time, 1)
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		select {
		case ticks <- time.Now():
		default:
			log.Printf("[poll] previous refresh still pending; skipping tick")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule auto refresh %q: %w", spec, err)
	}
	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return ticks, nil
}
