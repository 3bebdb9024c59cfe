package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config captures where the req-hunter API lives and how the console runs.
type Config struct {
	APIURL string
	// LogFile receives the console's own log output; the terminal is owned
	// by the UI.
	LogFile string
	// AutoRefresh is a cron spec for re-fetching the visible view, e.g.
	// "@every 1m". Empty disables it.
	AutoRefresh string
}

const (
	defaultConfigPath  = "~/.config/reqdeck/config.toml"
	defaultLogFile     = "~/.local/state/reqdeck/reqdeck.log"
	defaultAPIURL      = "http://127.0.0.1:8000"
	defaultAutoRefresh = "@every 1m"
)

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path, falling back to defaults when the file is
// missing. An explicitly empty auto_refresh or "off" disables auto-refresh.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:      defaultAPIURL,
		LogFile:     mustExpand(defaultLogFile),
		AutoRefresh: defaultAutoRefresh,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL      string  `toml:"api_url"`
		LogFile     string  `toml:"log_file"`
		AutoRefresh *string `toml:"auto_refresh"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if raw.AutoRefresh != nil {
		cfg.AutoRefresh = normalizeSchedule(*raw.AutoRefresh)
	}
	if err := ValidateAutoRefresh(cfg.AutoRefresh); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ValidateAutoRefresh checks that spec is empty or a parsable cron spec.
func ValidateAutoRefresh(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("parse auto_refresh %q: %w", spec, err)
	}
	return nil
}

func normalizeSchedule(spec string) string {
	spec = strings.TrimSpace(spec)
	if strings.EqualFold(spec, "off") {
		return ""
	}
	return spec
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
