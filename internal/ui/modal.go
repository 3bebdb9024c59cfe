package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmDialog asks a yes/no question before a destructive action.
type confirmDialog struct {
	prompt    string
	onConfirm func() tea.Cmd
	onDismiss func()
}

func newConfirmDialog(prompt string, onConfirm func() tea.Cmd, onDismiss func()) confirmDialog {
	return confirmDialog{prompt: prompt, onConfirm: onConfirm, onDismiss: onDismiss}
}

func (d confirmDialog) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		var cmd tea.Cmd
		if d.onConfirm != nil {
			cmd = d.onConfirm()
		}
		return nil, cmd, true
	case key.Matches(keyMsg, keys.No):
		if d.onDismiss != nil {
			d.onDismiss()
		}
		return nil, nil, true
	}
	return d, nil, false
}

func (d confirmDialog) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.DangerText.Render(d.prompt),
		"",
		styles.MutedText.Render("y confirm · n cancel"),
	)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 3).
		Render(body)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
