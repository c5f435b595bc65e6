package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tissaia/tissaia/internal/config"
	"github.com/tissaia/tissaia/internal/launcher"
	"github.com/tissaia/tissaia/internal/logger"
)

func main() {
	// macOS tray UI must run on the main thread.
	runtime.LockOSThread()

	configPath := flag.String("config", "", "Path to config file")
	noTray := flag.Bool("no-tray", false, "Run without system tray (console mode)")
	nonInteractive := flag.Bool("non-interactive", false, "Never prompt; missing API key selects demo mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *noTray {
		cfg.Launcher.NoTray = true
	}
	if *nonInteractive {
		cfg.Launcher.NonInteractive = true
	}

	logs, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Dir:        filepath.Join(cfg.Paths.Root, cfg.Paths.Logs),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open logs: %v\n", err)
		os.Exit(1)
	}
	defer logs.Close()

	if err := run(cfg, logs); err != nil {
		logs.Startup.Error().Err(err).Msg("launcher failed")
		logs.Close()
		os.Exit(1)
	}
}

// run isolates the sequence so that a panic anywhere in it lands in the debug
// log exactly once before the process exits with status 1.
func run(cfg *config.Config, logs *logger.Set) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logs.Debug.Error().Interface("panic", r).Str("run", logs.RunID()).Msg("fatal error in launcher")
			err = fmt.Errorf("fatal error: %v", r)
		}
	}()

	return launcher.New(cfg, logs).Run(context.Background())
}
