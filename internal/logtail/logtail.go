package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is a log severity as written by the service.
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
)

var levelNames = map[string]Level{
	"DEBUG":    LevelDebug,
	"INFO":     LevelInfo,
	"WARN":     LevelWarning,
	"WARNING":  LevelWarning,
	"ERROR":    LevelError,
	"CRITICAL": LevelError,
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "ALL"
	}
}

// Entry is one parsed log line. Lines that match no known layout keep only
// Raw and Message.
type Entry struct {
	Raw       string
	Timestamp string
	Level     Level
	Logger    string
	Message   string
}

var (
	// 2026-03-01 12:00:00 INFO app.scraper.runner - Scraped 12 jobs
	serviceLine = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?)\s+([A-Z]+)\s+(\S+)\s+-\s?(.*)$`)
	// 2026/03/01 12:00:00 [scrape] starting /scrape/run
	consoleLine = regexp.MustCompile(`^(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2})\s+(?:\[([^\]]+)\]\s*)?(.*)$`)
)

// Parse splits a log line into its fields.
func Parse(line string) Entry {
	if m := serviceLine.FindStringSubmatch(line); m != nil {
		if level, ok := levelNames[m[2]]; ok {
			return Entry{Raw: line, Timestamp: m[1], Level: level, Logger: m[3], Message: m[4]}
		}
	}
	if m := consoleLine.FindStringSubmatch(line); m != nil {
		return Entry{Raw: line, Timestamp: m[1], Level: LevelInfo, Logger: m[2], Message: m[3]}
	}
	return Entry{Raw: line, Message: line}
}

// Filter keeps lines at or above floor. Unparsed lines, usually traceback
// continuations, follow the verdict of the line before them.
func Filter(lines []string, floor Level) []string {
	if floor == LevelUnknown {
		return lines
	}
	out := make([]string, 0, len(lines))
	keep := false
	for _, line := range lines {
		entry := Parse(line)
		if entry.Level != LevelUnknown {
			keep = entry.Level >= floor
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}

// Grep keeps lines containing needle, case-insensitively.
func Grep(lines []string, needle string) []string {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), needle) {
			out = append(out, line)
		}
	}
	return out
}
