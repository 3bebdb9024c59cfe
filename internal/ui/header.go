package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/reqdeck/internal/notify"
	"github.com/five82/reqdeck/internal/state"
)

// maxToasts bounds how many notifications are drawn at once; the newest win.
const maxToasts = 4

// renderHeader renders the status bar: logo, API, reachability, scrape status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.console.Store.Snapshot()
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("reqdeck", styles.Logo)}

	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case snap.LastUpdated.IsZero():
		parts = append(parts, bg.Render("● connecting", styles.WarningText))
	default:
		parts = append(parts, bg.Render("● online", styles.SuccessText))
	}

	if !compact {
		parts = append(parts, bg.Render("API", styles.FaintText)+bg.Space()+
			bg.Render(truncateMiddle(m.apiURL, 40), styles.MutedText))
	}

	if status := m.console.Orchestrator.Status(); status != "" {
		parts = append(parts, bg.Render(m.spinner.View()+" "+status, styles.WarningText.Bold(true)))
	}

	if snap.IsOffline() && snap.LastError != nil && !compact {
		parts = append(parts, bg.Render(truncate(snap.LastError.Error(), 50), styles.DangerText))
	}

	if !snap.LastUpdated.IsZero() {
		parts = append(parts, bg.Render("Updated", styles.FaintText)+bg.Space()+
			bg.Render(snap.LastUpdated.Format("15:04:05"), styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderTabBar renders the view switcher and the global run control.
func (m Model) renderTabBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)
	current := m.console.Store.Tab()

	active := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Bold(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Foreground(lipgloss.Color(m.theme.Muted)).
		Padding(0, 1)

	var tabs []string
	for i, tab := range state.Tabs {
		label := fmt.Sprintf("%d %s", i+1, titleCase(string(tab)))
		if tab == current {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	left := strings.Join(tabs, bg.Space())

	button := m.console.Orchestrator.RunAllButton()
	var right string
	if button.Disabled() {
		right = bg.Render("["+button.Label()+"]", styles.FaintText)
	} else {
		right = bg.Render("R", styles.AccentText.Bold(true)) + bg.Space() + bg.Render(button.Label(), styles.Text)
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	return left + bg.Spaces(gap) + right + bg.Space()
}

// renderCommandBar renders the key hints for the visible view.
func (m Model) renderCommandBar() string {
	hints := m.help.ShortHelpView(m.keys.TabHelp(m.console.Store.Tab()))
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Padding(0, 1).
		Render(hints)
}

// renderToasts stacks the visible notifications, newest last.
func (m Model) renderToasts() string {
	active := m.console.Notes.Active()
	if len(active) == 0 {
		return ""
	}
	if len(active) > maxToasts {
		active = active[len(active)-maxToasts:]
	}

	width := min(48, max(m.width/3, 24))
	boxes := make([]string, 0, len(active))
	for _, n := range active {
		boxes = append(boxes, m.renderToast(n, width))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func (m Model) renderToast(n notify.Notification, width int) string {
	color := m.theme.Info
	switch n.Level {
	case notify.LevelOK:
		color = m.theme.Success
	case notify.LevelErr:
		color = m.theme.Danger
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(width).
		Padding(0, 1).
		Render(n.Text)
}

// overlayBottomRight draws box over the bottom-right corner of content.
func overlayBottomRight(content, box string, width, height int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	boxLines := strings.Split(box, "\n")
	if len(boxLines) > height {
		boxLines = boxLines[len(boxLines)-height:]
	}
	start := height - len(boxLines)
	for i, boxLine := range boxLines {
		keep := max(width-lipgloss.Width(boxLine)-1, 0)
		base := ansi.Truncate(lines[start+i], keep, "")
		pad := max(keep-lipgloss.Width(base), 0)
		lines[start+i] = base + strings.Repeat(" ", pad) + boxLine
	}
	return strings.Join(lines, "\n")
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bg.Color())

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	rows := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		rows = append(rows,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(rows, "\n") + "\n" + bottomBorder
}
