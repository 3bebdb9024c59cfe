package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
)

// MinScheduleInterval is the shortest interval the server accepts, in minutes.
const MinScheduleInterval = 5

// NormalizeInterval raises minutes to the server minimum.
func NormalizeInterval(minutes int) int {
	return max(MinScheduleInterval, minutes)
}

// ScheduleSnapshot is what the schedule view renders.
type ScheduleSnapshot struct {
	Schedule reqhunter.Schedule
	Loaded   bool
	Saving   bool
}

// Schedule drives the server-side periodic scrape settings.
type Schedule struct {
	api   reqhunter.API
	store *state.Store
	notes notify.Notifier

	mu     sync.Mutex
	seq    uint64
	sched  reqhunter.Schedule
	loaded bool
	saving bool
}

// NewSchedule wires a schedule controller.
func NewSchedule(api reqhunter.API, store *state.Store, notes notify.Notifier) *Schedule {
	return &Schedule{api: api, store: store, notes: notes}
}

// Snapshot returns a copy of the schedule state.
func (s *Schedule) Snapshot() ScheduleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ScheduleSnapshot{Schedule: s.sched, Loaded: s.loaded, Saving: s.saving}
}

// Refresh fetches the stored schedule.
func (s *Schedule) Refresh() Task {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	return func(ctx context.Context) error {
		sched, err := s.api.FetchSchedule(ctx)
		recordResult(s.store, err)

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return nil
		}
		if err != nil {
			s.notes.Push("Failed to load schedule: "+err.Error(), notify.LevelErr)
			return fmt.Errorf("fetch schedule: %w", err)
		}
		s.sched = sched
		s.loaded = true
		return nil
	}
}

// Toggle flips the enabled flag immediately and reverts it on failure.
func (s *Schedule) Toggle() Task {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil
	}
	s.seq++
	seq := s.seq
	previous := s.sched
	enabled := !s.sched.IsEnabled
	s.sched.IsEnabled = enabled
	s.saving = true
	s.mu.Unlock()

	return s.save(seq, reqhunter.SchedulePatch{IsEnabled: &enabled}, previous, func(sched reqhunter.Schedule) string {
		if sched.IsEnabled {
			return "Schedule enabled"
		}
		return "Schedule paused"
	})
}

// SetInterval stores a new interval, raised to the server minimum.
func (s *Schedule) SetInterval(minutes int) Task {
	minutes = NormalizeInterval(minutes)

	s.mu.Lock()
	if !s.loaded || s.sched.IntervalMinutes == minutes {
		s.mu.Unlock()
		return nil
	}
	s.seq++
	seq := s.seq
	previous := s.sched
	s.sched.IntervalMinutes = minutes
	s.saving = true
	s.mu.Unlock()

	return s.save(seq, reqhunter.SchedulePatch{IntervalMinutes: &minutes}, previous, func(sched reqhunter.Schedule) string {
		return fmt.Sprintf("Scraping every %d minutes", sched.IntervalMinutes)
	})
}

func (s *Schedule) save(seq uint64, patch reqhunter.SchedulePatch, previous reqhunter.Schedule, message func(reqhunter.Schedule) string) Task {
	return func(ctx context.Context) error {
		sched, err := s.api.UpdateSchedule(ctx, patch)
		recordResult(s.store, err)

		s.mu.Lock()
		current := seq == s.seq
		if current {
			s.saving = false
			if err != nil {
				s.sched = previous
			} else {
				s.sched = sched
			}
		}
		s.mu.Unlock()

		if err != nil {
			s.notes.Push("Failed to update schedule: "+err.Error(), notify.LevelErr)
			return fmt.Errorf("update schedule: %w", err)
		}
		s.notes.Push(message(sched), notify.LevelOK)
		return nil
	}
}

// Preview estimates the next run from now. It uses the server's next_run_at
// when present and otherwise projects one interval ahead. The zero time
// means no run is planned.
func (s ScheduleSnapshot) Preview(now time.Time) time.Time {
	sched := s.Schedule
	if !s.Loaded || !sched.IsEnabled {
		return time.Time{}
	}
	if next := sched.ParsedNextRunAt(); !next.IsZero() && next.After(now) {
		return next
	}
	every := cron.Every(time.Duration(NormalizeInterval(sched.IntervalMinutes)) * time.Minute)
	return every.Next(now)
}
