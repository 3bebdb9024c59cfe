package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"tab", "Next view"},
				{"1-4", "Jobs/Sources/Logs/Schedule"},
				{"j/k", "Move down/up"},
				{"g/G", "Go to top/bottom"},
				{"ctrl+d/u", "Half page down/up"},
			},
		},
		{
			title: "Jobs",
			items: []helpItem{
				{"f / 0", "Cycle filter / all"},
				{"[ ]", "Previous/next page"},
				{"enter", "Details (esc closes)"},
				{"n s a x i", "New/seen/applied/rejected/ignored"},
			},
		},
		{
			title: "Sources",
			items: []helpItem{
				{"a / e", "Add / edit in form"},
				{"space", "Toggle active"},
				{"r", "Run this source"},
				{"u", "Clear block"},
				{"d", "Delete"},
			},
		},
		{
			title: "Logs",
			items: []helpItem{
				{"L", "Line count"},
				{"v", "Cycle level"},
				{"/", "Filter lines"},
				{"c", "Service/client log"},
			},
		},
		{
			title: "Schedule",
			items: []helpItem{
				{"space", "Enable/pause"},
				{"+/-", "Interval ±5m"},
				{"e", "Set interval"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"R", "Run all sources"},
				{"ctrl+r", "Refresh view"},
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(50)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
