package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reqdeck/internal/config"
	"github.com/five82/reqdeck/internal/console"
	"github.com/five82/reqdeck/internal/prefs"
	"github.com/five82/reqdeck/internal/reqhunter"
	"github.com/five82/reqdeck/internal/state"
	"github.com/five82/reqdeck/internal/ui"
)

// Options configure the reqdeck application. Non-empty fields override the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/reqdeck/prefs.toml
	APIURL     string
	LogFile    string
}

// Settings is the resolved startup configuration.
type Settings struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
}

// Resolve loads config and prefs and applies option overrides.
func Resolve(opts Options) (Settings, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return Settings{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return Settings{}, fmt.Errorf("resolve log file: %w", err)
		}
		cfg.LogFile = expanded
	}

	prefsPath := opts.PrefsPath
	if strings.TrimSpace(prefsPath) == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	return Settings{Config: cfg, Prefs: userPrefs, PrefsPath: prefsPath}, nil
}

// Run boots the reqdeck TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	settings, err := Resolve(opts)
	if err != nil {
		return err
	}
	cfg := settings.Config

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	client, err := reqhunter.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init reqhunter client: %w", err)
	}
	log.Printf("[app] starting against %s", client.BaseURL())

	ticks, err := StartPoller(ctx, cfg.AutoRefresh)
	if err != nil {
		return err
	}

	c := console.New(client, settings.Prefs.LogLines)

	return ui.Run(ui.Options{
		Context:     ctx,
		Console:     c,
		APIURL:      client.BaseURL(),
		LogFile:     cfg.LogFile,
		AutoRefresh: ticks,
		ThemeName:   settings.Prefs.Theme,
		PrefsPath:   settings.PrefsPath,
		Prefs:       settings.Prefs,
		InitialTab:  state.ParseTab(settings.Prefs.LastTab),
	})
}

// openLog points the standard logger at path; the terminal belongs to the UI.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
