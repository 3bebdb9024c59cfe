package logtail

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the styles used to render log lines.
type Palette struct {
	Timestamp lipgloss.Style
	Logger    lipgloss.Style
	Message   lipgloss.Style
	Detail    lipgloss.Style
	Levels    map[Level]lipgloss.Style
}

// DefaultPalette suits dark terminals.
func DefaultPalette() Palette {
	return Palette{
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		Logger:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6495ED")),
		Message:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB")),
		Detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		Levels: map[Level]lipgloss.Style{
			LevelDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color("#22D3EE")),
			LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true),
			LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")).Bold(true),
			LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
		},
	}
}

// ColorizeLine styles one line. Lines that do not parse are rendered in the
// detail style.
func ColorizeLine(line string, p Palette) string {
	entry := Parse(line)
	if entry.Timestamp == "" {
		return p.Detail.Render(line)
	}

	var b strings.Builder
	b.WriteString(p.Timestamp.Render(entry.Timestamp))
	if entry.Level != LevelUnknown && serviceLine.MatchString(line) {
		b.WriteByte(' ')
		b.WriteString(p.Levels[entry.Level].Render(entry.Level.String()))
	}
	if entry.Logger != "" {
		b.WriteByte(' ')
		b.WriteString(p.Logger.Render(entry.Logger))
	}
	if entry.Message != "" {
		b.WriteString(" - ")
		b.WriteString(p.Message.Render(entry.Message))
	}
	return b.String()
}

// ColorizeLines styles every line.
func ColorizeLines(lines []string, p Palette) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ColorizeLine(line, p)
	}
	return out
}
