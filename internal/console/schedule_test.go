package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reqdeck/internal/reqhunter"
)

func loadedSchedule(t *testing.T, h *harness, sched reqhunter.Schedule) *Schedule {
	t.Helper()
	h.api.fetchSchedule = func() (reqhunter.Schedule, error) { return sched, nil }
	s := NewSchedule(h.api, h.store, h.notes)
	require.NoError(t, s.Refresh().Run(context.Background()))
	return s
}

func TestNormalizeInterval(t *testing.T) {
	assert.Equal(t, 5, NormalizeInterval(0))
	assert.Equal(t, 5, NormalizeInterval(-10))
	assert.Equal(t, 5, NormalizeInterval(5))
	assert.Equal(t, 45, NormalizeInterval(45))
}

func TestSchedule_ToggleAppliesServerResult(t *testing.T) {
	h := newHarness(t)
	s := loadedSchedule(t, h, reqhunter.Schedule{IsEnabled: false, IntervalMinutes: 30})
	h.api.updateSchedule = func(p reqhunter.SchedulePatch) (reqhunter.Schedule, error) {
		require.NotNil(t, p.IsEnabled)
		return reqhunter.Schedule{IsEnabled: *p.IsEnabled, IntervalMinutes: 30, NextRunAt: strPtr("2026-03-01T12:30:00Z")}, nil
	}

	task := s.Toggle()
	snap := s.Snapshot()
	assert.True(t, snap.Schedule.IsEnabled)
	assert.True(t, snap.Saving)

	require.NoError(t, task.Run(context.Background()))
	snap = s.Snapshot()
	assert.False(t, snap.Saving)
	require.NotNil(t, snap.Schedule.NextRunAt)
	assert.Equal(t, []string{"Schedule enabled"}, h.notes.Texts())
}

func TestSchedule_ToggleFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	s := loadedSchedule(t, h, reqhunter.Schedule{IsEnabled: true, IntervalMinutes: 30})
	h.api.updateSchedule = func(reqhunter.SchedulePatch) (reqhunter.Schedule, error) {
		return reqhunter.Schedule{}, errors.New("execute request: timeout")
	}

	require.Error(t, s.Toggle().Run(context.Background()))
	assert.True(t, s.Snapshot().Schedule.IsEnabled)
	assert.Equal(t, []string{"Failed to update schedule: execute request: timeout"}, h.notes.Texts())
}

func TestSchedule_SetIntervalNormalizes(t *testing.T) {
	h := newHarness(t)
	s := loadedSchedule(t, h, reqhunter.Schedule{IsEnabled: true, IntervalMinutes: 30})
	var sent int
	h.api.updateSchedule = func(p reqhunter.SchedulePatch) (reqhunter.Schedule, error) {
		sent = *p.IntervalMinutes
		return reqhunter.Schedule{IsEnabled: true, IntervalMinutes: sent}, nil
	}

	require.NoError(t, s.SetInterval(2).Run(context.Background()))
	assert.Equal(t, 5, sent)
	assert.Equal(t, 5, s.Snapshot().Schedule.IntervalMinutes)
	assert.Equal(t, []string{"Scraping every 5 minutes"}, h.notes.Texts())

	assert.Nil(t, s.SetInterval(5), "unchanged interval")
}

func TestSchedule_MutationsNeedLoadedSchedule(t *testing.T) {
	h := newHarness(t)
	s := NewSchedule(h.api, h.store, h.notes)
	assert.Nil(t, s.Toggle())
	assert.Nil(t, s.SetInterval(10))
	assert.Empty(t, h.api.Calls())
}

func TestScheduleSnapshot_Preview(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	disabled := ScheduleSnapshot{Loaded: true, Schedule: reqhunter.Schedule{IsEnabled: false, IntervalMinutes: 30}}
	assert.True(t, disabled.Preview(now).IsZero())

	fromServer := ScheduleSnapshot{Loaded: true, Schedule: reqhunter.Schedule{
		IsEnabled: true, IntervalMinutes: 30, NextRunAt: strPtr("2026-03-01T12:10:00Z"),
	}}
	assert.WithinDuration(t, now.Add(10*time.Minute), fromServer.Preview(now), 0)

	projected := ScheduleSnapshot{Loaded: true, Schedule: reqhunter.Schedule{IsEnabled: true, IntervalMinutes: 3}}
	assert.WithinDuration(t, now.Add(5*time.Minute), projected.Preview(now), 0)
}
