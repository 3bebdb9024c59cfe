package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/reqdeck/internal/app"
	"github.com/five82/reqdeck/internal/reqhunter"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/reqdeck/config.toml)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	apiURL := flag.String("api", "", "req-hunter API base URL (overrides api_url)")
	logFile := flag.String("log", "", "client log file (overrides log_file)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("reqdeck " + reqhunter.Version)
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		APIURL:     *apiURL,
		LogFile:    *logFile,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "reqdeck: %v\n", err)
		return 1
	}
	return 0
}
