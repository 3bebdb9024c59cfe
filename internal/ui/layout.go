package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutSplitWidth is the minimum width to show the job detail pane
	// beside the table instead of over it.
	LayoutSplitWidth = 130

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Fixed rows taken by chrome: header, tab bar, command bar.
const chromeHeight = 3

// Timing constants.
const (
	// DefaultUIInterval drives relative timestamps and the schedule countdown.
	DefaultUIInterval = time.Second

	// LocalLogLines bounds how much of the client log file is read.
	LocalLogLines = 2000
)
