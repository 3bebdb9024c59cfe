package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reqdeck/internal/console"
	"github.com/five82/reqdeck/internal/notify"
)

// intervalStep is how far +/- move the schedule interval, in minutes.
const intervalStep = 5

type scheduleView struct {
	input textinput.Model
}

func newScheduleView() scheduleView {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 4
	input.Width = 6
	input.Placeholder = strconv.Itoa(console.MinScheduleInterval)
	return scheduleView{input: input}
}

// handleScheduleKey processes keyboard input for the schedule view.
func (m Model) handleScheduleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	schedule := m.console.Schedule
	current := schedule.Snapshot().Schedule.IntervalMinutes

	switch {
	case key.Matches(msg, m.keys.ToggleSchedule):
		return m, m.runTask("toggle schedule", schedule.Toggle())
	case key.Matches(msg, m.keys.IntervalUp):
		return m, m.runTask("update interval", schedule.SetInterval(current+intervalStep))
	case key.Matches(msg, m.keys.IntervalDown):
		return m, m.runTask("update interval", schedule.SetInterval(current-intervalStep))
	case key.Matches(msg, m.keys.EditInterval):
		if !schedule.Snapshot().Loaded {
			return m, nil
		}
		m.schedule.input.SetValue(strconv.Itoa(current))
		m.schedule.input.CursorEnd()
		cmd := m.schedule.input.Focus()
		return m, cmd
	}
	return m, nil
}

// handleIntervalInputKey processes keyboard input for the interval input.
func (m Model) handleIntervalInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		raw := strings.TrimSpace(m.schedule.input.Value())
		m.schedule.input.Blur()
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			m.console.Notes.Push("Interval must be a whole number of minutes", notify.LevelErr)
			return m, nil
		}
		return m, m.runTask("update interval", m.console.Schedule.SetInterval(minutes))
	case key.Matches(msg, m.keys.Cancel):
		m.schedule.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.schedule.input, cmd = m.schedule.input.Update(msg)
	return m, cmd
}

// renderSchedule renders the server-side scrape schedule.
func (m Model) renderSchedule() string {
	height := max(m.height-chromeHeight, 1)
	width := min(m.width, 72)
	snap := m.console.Schedule.Snapshot()
	styles := m.theme.Styles()

	var body string
	if !snap.Loaded {
		body = styles.MutedText.Render("Loading schedule...")
	} else {
		body = m.renderScheduleFields(snap)
	}

	box := m.renderTitledBox("Scrape schedule", body, width, min(height, 12), false)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Top, box)
}

func (m Model) renderScheduleFields(snap console.ScheduleSnapshot) string {
	styles := m.theme.Styles()
	label := styles.FaintText.Width(12)
	sched := snap.Schedule

	status := styles.WarningText.Render("Paused")
	if sched.IsEnabled {
		status = styles.SuccessText.Render("Enabled")
	}
	if snap.Saving {
		status += styles.FaintText.Render("  saving…")
	}

	interval := styles.Text.Render(fmt.Sprintf("every %d minutes", sched.IntervalMinutes))
	if m.schedule.input.Focused() {
		interval = m.schedule.input.View() + styles.FaintText.Render(fmt.Sprintf(" minutes (min %d)", console.MinScheduleInterval))
	}

	next := styles.MutedText.Render("not scheduled")
	if at := snap.Preview(m.now); !at.IsZero() {
		next = styles.AccentText.Render(relativeTime(at, m.now)) + styles.MutedText.Render(" ("+formatTimestamp(at)+")")
	}

	last := styles.MutedText.Render("never")
	if at := sched.ParsedLastRunAt(); !at.IsZero() {
		last = styles.Text.Render(relativeTime(at, m.now)) + styles.MutedText.Render(" ("+formatTimestamp(at)+")")
	}

	lines := []string{
		label.Render("Status") + status,
		label.Render("Interval") + interval,
		label.Render("Last run") + last,
		label.Render("Next run") + next,
		"",
		styles.FaintText.Render("space enable/pause · +/- adjust · e set interval"),
	}
	return strings.Join(lines, "\n")
}
