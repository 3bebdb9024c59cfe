package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reqdeck/internal/console"
	"github.com/five82/reqdeck/internal/logtail"
)

// logsView is the log pane: either the service log fetched through the
// API, or the console's own log file read from disk.
type logsView struct {
	viewport    viewport.Model
	limitInput  textinput.Model
	searchInput textinput.Model

	snap  console.LogsSnapshot
	query string
	level logtail.Level

	local      bool
	localLines []string
	localErr   error
	localRead  bool

	follow  bool
	content string
}

type localLogsMsg struct {
	lines []string
	err   error
}

func newLogsView(limit int) logsView {
	limitInput := textinput.New()
	limitInput.Prompt = ""
	limitInput.CharLimit = 5
	limitInput.Width = 6
	limitInput.SetValue(strconv.Itoa(limit))

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.Placeholder = "text"
	searchInput.CharLimit = 128
	searchInput.Width = 24

	return logsView{
		limitInput:  limitInput,
		searchInput: searchInput,
		follow:      true,
	}
}

func (v logsView) inputFocused() bool {
	return v.limitInput.Focused() || v.searchInput.Focused()
}

func (v *logsView) resize(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = max(height-2, 1)
	v.content = ""
}

func (v *logsView) applyLocal(msg localLogsMsg) {
	v.localLines = msg.lines
	v.localErr = msg.err
	v.localRead = true
}

// sync re-renders the pane when its text changed, staying pinned to the
// newest line while following.
func (v *logsView) sync(snap console.LogsSnapshot, theme Theme) {
	v.snap = snap
	content := v.render(theme)
	if content == v.content {
		return
	}
	v.content = content
	v.viewport.SetContent(content)
	if v.follow {
		v.viewport.GotoBottom()
	}
}

func (v logsView) render(theme Theme) string {
	var lines []string
	if v.local {
		switch {
		case v.localErr != nil:
			return "Failed to read client log: " + v.localErr.Error()
		case !v.localRead:
			return console.LogsLoading.Placeholder()
		case len(v.localLines) == 0:
			return console.LogsEmpty.Placeholder()
		}
		lines = v.localLines
	} else {
		if v.snap.State != console.LogsLoaded {
			return v.snap.Text()
		}
		lines = v.snap.Lines
	}

	lines = logtail.Filter(lines, v.level)
	if v.query != "" {
		lines = logtail.Grep(lines, v.query)
	}
	if len(lines) == 0 {
		return "No lines match the current filters."
	}
	return strings.Join(logtail.ColorizeLines(lines, theme.LogPalette()), "\n")
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	v := &m.logs

	switch {
	case key.Matches(msg, m.keys.Up):
		v.viewport.LineUp(1)
		v.follow = false
	case key.Matches(msg, m.keys.Down):
		v.viewport.LineDown(1)
		v.follow = v.viewport.AtBottom()
	case key.Matches(msg, m.keys.HalfPageUp):
		v.viewport.HalfViewUp()
		v.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		v.viewport.HalfViewDown()
		v.follow = v.viewport.AtBottom()
	case key.Matches(msg, m.keys.Top):
		v.viewport.GotoTop()
		v.follow = false
	case key.Matches(msg, m.keys.Bottom):
		v.viewport.GotoBottom()
		v.follow = true

	case key.Matches(msg, m.keys.LineCount):
		cmd := v.limitInput.Focus()
		v.limitInput.CursorEnd()
		return m, cmd

	case key.Matches(msg, m.keys.Search):
		v.searchInput.SetValue(v.query)
		cmd := v.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		v.query = ""

	case key.Matches(msg, m.keys.CycleLevel):
		v.level = (v.level + 1) % (logtail.LevelError + 1)

	case key.Matches(msg, m.keys.ToggleLocal):
		v.local = !v.local
		v.follow = true
		if v.local {
			v.localRead = false
			return m, readLocalLogsCmd(m.logFile)
		}
		return m, m.runTask("refresh logs", m.console.Logs.Refresh())
	}
	return m, nil
}

// handleLogsInputKey processes keyboard input for the line-count and filter inputs.
func (m Model) handleLogsInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	v := &m.logs

	if v.limitInput.Focused() {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			limit := m.console.Logs.SetLimitInput(v.limitInput.Value())
			v.limitInput.SetValue(strconv.Itoa(limit))
			v.limitInput.Blur()
			m.savePrefs()
			if v.local {
				return m, nil
			}
			return m, m.runTask("refresh logs", m.console.Logs.Refresh())
		case key.Matches(msg, m.keys.Cancel):
			v.limitInput.SetValue(strconv.Itoa(m.console.Logs.Limit()))
			v.limitInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		v.limitInput, cmd = v.limitInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Confirm):
		v.query = strings.TrimSpace(v.searchInput.Value())
		v.searchInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		v.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	return m, cmd
}

// renderLogs renders the toolbar and the log viewport.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	v := m.logs

	source := "service"
	if v.local {
		source = "client " + truncateMiddle(m.logFile, 40)
	}

	parts := []string{
		styles.FaintText.Render("Source ") + styles.Text.Render(source),
		styles.FaintText.Render("Lines ") + v.limitInput.View(),
		styles.FaintText.Render("Level ") + styles.AccentText.Render(v.level.String()),
	}
	switch {
	case v.searchInput.Focused():
		parts = append(parts, v.searchInput.View())
	case v.query != "":
		parts = append(parts, styles.FaintText.Render("Filter ")+styles.WarningText.Render(v.query))
	}
	if !v.follow {
		parts = append(parts, styles.FaintText.Render(fmt.Sprintf("%3.0f%%", v.viewport.ScrollPercent()*100)))
	}

	toolbar := " " + strings.Join(parts, "   ")
	return toolbar + "\n\n" + v.viewport.View()
}

func readLocalLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LocalLogLines)
		return localLogsMsg{lines: lines, err: err}
	}
}
