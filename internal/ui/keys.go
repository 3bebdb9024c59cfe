package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/reqdeck/internal/state"
)

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	RunAll     key.Binding
	Refresh    key.Binding

	// View switching
	ViewJobs     key.Binding
	ViewSources  key.Binding
	ViewLogs     key.Binding
	ViewSchedule key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Jobs actions
	CycleFilter  key.Binding
	ClearFilter  key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	Inspect      key.Binding
	MarkNew      key.Binding
	MarkSeen     key.Binding
	MarkApplied  key.Binding
	MarkRejected key.Binding
	MarkIgnored  key.Binding

	// Sources actions
	AddSource    key.Binding
	EditSource   key.Binding
	ToggleActive key.Binding
	Unblock      key.Binding
	DeleteSource key.Binding
	RunSource    key.Binding

	// Logs actions
	LineCount   key.Binding
	CycleLevel  key.Binding
	Search      key.Binding
	ToggleLocal key.Binding

	// Schedule actions
	ToggleSchedule key.Binding
	IntervalUp     key.Binding
	IntervalDown   key.Binding
	EditInterval   key.Binding

	// Form/dialog input
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Yes       key.Binding
	No        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		RunAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Run all sources"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r", "f5"),
			key.WithHelp("ctrl+r", "Refresh view"),
		),

		// View switching
		ViewJobs: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Jobs"),
		),
		ViewSources: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Sources"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Logs"),
		),
		ViewSchedule: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Schedule"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		// Jobs actions
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle status filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "All statuses"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]", "Next page"),
		),
		Inspect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Job details"),
		),
		MarkNew: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Mark new"),
		),
		MarkSeen: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Mark seen"),
		),
		MarkApplied: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Mark applied"),
		),
		MarkRejected: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Mark rejected"),
		),
		MarkIgnored: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Mark ignored"),
		),

		// Sources actions
		AddSource: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add source"),
		),
		EditSource: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit source"),
		),
		ToggleActive: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle active"),
		),
		Unblock: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Unblock"),
		),
		DeleteSource: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete"),
		),
		RunSource: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Run source"),
		),

		// Logs actions
		LineCount: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Line count"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Cycle level"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter lines"),
		),
		ToggleLocal: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Service/client log"),
		),

		// Schedule actions
		ToggleSchedule: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Enable/pause"),
		),
		IntervalUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Interval +5m"),
		),
		IntervalDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Interval -5m"),
		),
		EditInterval: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Set interval"),
		),

		// Form/dialog input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "Yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "No"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.ViewJobs, k.ViewSources, k.ViewLogs, k.ViewSchedule},
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		{k.CycleFilter, k.ClearFilter, k.PrevPage, k.NextPage, k.Inspect},
		{k.MarkNew, k.MarkSeen, k.MarkApplied, k.MarkRejected, k.MarkIgnored},
		{k.AddSource, k.EditSource, k.ToggleActive, k.Unblock, k.DeleteSource, k.RunSource},
		{k.LineCount, k.CycleLevel, k.Search, k.ToggleLocal},
		{k.ToggleSchedule, k.IntervalUp, k.IntervalDown, k.EditInterval},
		{k.RunAll, k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}

// TabHelp returns the bindings shown in the command bar for tab.
func (k keyMap) TabHelp(tab state.Tab) []key.Binding {
	var view []key.Binding
	switch tab {
	case state.TabJobs:
		view = []key.Binding{k.CycleFilter, k.PrevPage, k.NextPage, k.Inspect, k.MarkApplied, k.MarkSeen, k.MarkRejected}
	case state.TabSources:
		view = []key.Binding{k.AddSource, k.EditSource, k.ToggleActive, k.RunSource, k.DeleteSource}
	case state.TabLogs:
		view = []key.Binding{k.LineCount, k.CycleLevel, k.Search, k.ToggleLocal}
	case state.TabSchedule:
		view = []key.Binding{k.ToggleSchedule, k.IntervalUp, k.IntervalDown, k.EditInterval}
	}
	return append(view, k.RunAll, k.NextTab, k.Help, k.Quit)
}
