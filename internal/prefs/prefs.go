// Package prefs persists reqdeck user preferences in
// ~/.config/reqdeck/prefs.toml. Failures to read fall back to defaults;
// preferences are never worth refusing to start over.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/reqdeck/internal/config"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme    string `toml:"theme"`
	LogLines int    `toml:"log_lines"`
	LastTab  string `toml:"last_tab,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/reqdeck/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultLogLines  = 200
	maxLogLines      = 2000
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, LogLines: defaultLogLines}
}

// Load reads preferences from path, falling back to defaults when the file is
// missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Defaults(), nil
	}

	p := Defaults()
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Defaults(), nil
	}

	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if p.LogLines <= 0 {
		p.LogLines = defaultLogLines
	}
	p.LogLines = min(p.LogLines, maxLogLines)
	return p, nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPrefsPath)
	}
	return config.ExpandPath(path)
}
