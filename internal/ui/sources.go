package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reqdeck/internal/console"
	"github.com/five82/reqdeck/internal/reqhunter"
)

// sourcesView holds the source list selection and the form inputs.
type sourcesView struct {
	snap     console.SourcesSnapshot
	selected int
	form     sourceForm
}

func newSourcesView() sourcesView {
	return sourcesView{form: newSourceForm()}
}

// sync picks up a new snapshot. When the controller replaced the form
// contents (edit loaded, submit succeeded, cancel), the inputs follow it.
func (v *sourcesView) sync(snap console.SourcesSnapshot) {
	v.snap = snap
	if v.selected >= len(snap.Rows) {
		v.selected = max(len(snap.Rows)-1, 0)
	}
	if snap.FormRev == v.form.rev {
		return
	}
	v.form.rev = snap.FormRev
	v.form.load(snap.Form)
	if _, editing := snap.Mode.Editing(); editing {
		v.form.focusField(fieldName)
	} else {
		v.form.blur()
	}
}

func (v sourcesView) selectedSource() (console.SourceRow, bool) {
	if v.selected < 0 || v.selected >= len(v.snap.Rows) {
		return console.SourceRow{}, false
	}
	return v.snap.Rows[v.selected], true
}

// sourceState is the status color key for a source row.
func sourceState(src reqhunter.Source) string {
	switch {
	case src.IsBlocked:
		return "blocked"
	case src.IsActive:
		return "active"
	default:
		return "paused"
	}
}

// handleSourcesKey processes keyboard input for the sources list.
func (m Model) handleSourcesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	sources := m.console.Sources
	rows := len(m.sources.snap.Rows)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sources.selected > 0 {
			m.sources.selected--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.sources.selected < rows-1 {
			m.sources.selected++
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.sources.selected = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.sources.selected = max(rows-1, 0)
		return m, nil

	case key.Matches(msg, m.keys.AddSource):
		if _, editing := m.sources.snap.Mode.Editing(); editing {
			sources.Cancel()
		}
		cmd := m.sources.form.focusField(fieldName)
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		if _, editing := m.sources.snap.Mode.Editing(); editing {
			sources.Cancel()
		}
		return m, nil
	}

	row, ok := m.sources.selectedSource()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.EditSource):
		return m, m.runTask("load source", sources.BeginEdit(row.ID))

	case key.Matches(msg, m.keys.ToggleActive):
		return m, m.runTask("toggle source", sources.ToggleActive(row.ID))

	case key.Matches(msg, m.keys.Unblock):
		return m, m.runTask("unblock source", sources.ClearBlock(row.ID))

	case key.Matches(msg, m.keys.RunSource):
		return m, m.startRun(sources.Run(row.ID))

	case key.Matches(msg, m.keys.DeleteSource):
		prompt, ok := sources.RequestDelete(row.ID)
		if !ok {
			return m, nil
		}
		run := m.runTask
		m.modal = newConfirmDialog(prompt,
			func() tea.Cmd { return run("delete source", sources.ConfirmDelete()) },
			sources.DismissDelete,
		)
	}
	return m, nil
}

// handleFormKey processes keyboard input while the form is focused.
func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	form := &m.sources.form

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.console.Sources.Cancel()
		form.blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		task := m.console.Sources.Submit(form.values())
		if task == nil {
			// validation failed; keep editing
			return m, nil
		}
		form.blur()
		return m, m.runTask("submit source", task)

	case key.Matches(msg, m.keys.NextField):
		cmd := form.focusField(form.focus + 1)
		return m, cmd

	case key.Matches(msg, m.keys.PrevField):
		cmd := form.focusField(form.focus - 1)
		return m, cmd
	}

	cmd := form.update(msg)
	return m, cmd
}

// renderSources renders the source list beside the form, or above it on
// narrow terminals.
func (m Model) renderSources() string {
	height := max(m.height-chromeHeight, 1)

	if m.width < LayoutCompactWidth {
		formHeight := min(fieldCount+5, height/2)
		list := m.renderTitledBox("Sources", m.renderSourceList(m.width-2), m.width, height-formHeight, !m.sources.form.focused())
		form := m.renderTitledBox(m.formTitle(), m.renderSourceForm(), m.width, formHeight, m.sources.form.focused())
		return lipgloss.JoinVertical(lipgloss.Left, list, form)
	}

	formWidth := max(m.width*40/100, 40)
	listWidth := m.width - formWidth
	list := m.renderTitledBox("Sources", m.renderSourceList(listWidth-2), listWidth, height, !m.sources.form.focused())
	form := m.renderTitledBox(m.formTitle(), m.renderSourceForm(), formWidth, height, m.sources.form.focused())
	return lipgloss.JoinHorizontal(lipgloss.Top, list, form)
}

func (m Model) formTitle() string {
	if id, editing := m.sources.snap.Mode.Editing(); editing {
		return fmt.Sprintf("Edit source #%d", id)
	}
	return "Add source"
}

func (m Model) renderSourceList(width int) string {
	styles := m.theme.Styles()
	snap := m.sources.snap

	switch {
	case snap.Empty():
		return styles.MutedText.Render("No sources yet. Press a to add one.")
	case !snap.Loaded:
		return styles.MutedText.Render("Loading sources...")
	}

	nameWidth := max(width-48, 12)
	lines := make([]string, 0, len(snap.Rows)+6)
	for i, row := range snap.Rows {
		state := sourceState(row.Source)
		run := "run"
		if row.Running {
			run = "running…"
		}
		text := fmt.Sprintf("%s %s %s %s %s",
			fit(state, 8),
			fit(row.Name, nameWidth),
			fit(row.Keyword, 14),
			fit(relativeTime(row.ParsedLastScrapedAt(), m.now), 9),
			run,
		)
		if i == m.sources.selected {
			lines = append(lines, styles.Selected.Width(width).Render(text))
			continue
		}
		stateStyle := lipgloss.NewStyle().Foreground(m.theme.StatusColor(state))
		runStyle := styles.AccentText
		if row.Running {
			runStyle = styles.FaintText
		}
		lines = append(lines, stateStyle.Render(fit(state, 8))+" "+
			styles.Text.Render(fit(row.Name, nameWidth))+" "+
			styles.MutedText.Render(fit(row.Keyword, 14))+" "+
			styles.FaintText.Render(fit(relativeTime(row.ParsedLastScrapedAt(), m.now), 9))+" "+
			runStyle.Render(run))
	}

	if row, ok := m.sources.selectedSource(); ok {
		lines = append(lines, "", m.renderSourceInfo(row.Source, width))
	}
	return strings.Join(lines, "\n")
}

// renderSourceInfo shows the fields of the selected source that do not fit
// in its row.
func (m Model) renderSourceInfo(src reqhunter.Source, width int) string {
	styles := m.theme.Styles()
	label := styles.FaintText.Width(9)

	lines := []string{
		label.Render("URL") + styles.MutedText.Render(truncateMiddle(src.BaseURL, width-10)),
		label.Render("Query") + styles.MutedText.Render(src.QueryParam+"="+src.Keyword),
	}
	if src.URLPathFilter != nil && *src.URLPathFilter != "" {
		lines = append(lines, label.Render("Filter")+styles.MutedText.Render(*src.URLPathFilter))
	}
	if src.IsBlocked {
		reason := "blocked"
		if src.BlockedReason != nil && *src.BlockedReason != "" {
			reason = *src.BlockedReason
		}
		lines = append(lines, label.Render("Blocked")+styles.WarningText.Render(truncate(reason, width-10)+" (u to clear)"))
	}
	if src.LastError != nil && *src.LastError != "" {
		lines = append(lines, label.Render("Error")+styles.DangerText.Render(truncate(*src.LastError, width-10)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSourceForm() string {
	styles := m.theme.Styles()
	form := m.sources.form

	lines := make([]string, 0, fieldCount+2)
	for i, field := range formFields {
		labelStyle := styles.MutedText
		if form.focus == i {
			labelStyle = styles.AccentText.Bold(true)
		}
		lines = append(lines, labelStyle.Width(13).Render(field.label)+form.inputs[i].View())
	}

	hint := "a add · e edit selected"
	if form.focused() {
		hint = "enter save · esc cancel · tab next field"
	}
	lines = append(lines, "", styles.FaintText.Render(hint))
	return strings.Join(lines, "\n")
}
