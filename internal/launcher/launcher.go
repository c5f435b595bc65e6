// Package launcher sequences the Tissaia bootstrap: prerequisites, dependency
// install, configuration, dev server startup, browser launch, resident loop.
package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/tissaia/tissaia/internal/browser"
	"github.com/tissaia/tissaia/internal/config"
	"github.com/tissaia/tissaia/internal/deps"
	"github.com/tissaia/tissaia/internal/devserver"
	"github.com/tissaia/tissaia/internal/envfile"
	"github.com/tissaia/tissaia/internal/logger"
	"github.com/tissaia/tissaia/internal/platform"
	"github.com/tissaia/tissaia/internal/poll"
	"github.com/tissaia/tissaia/internal/prereq"
)

const banner = "\033[96m" + `
╔═══════════════════════════════════════════╗
║        Tissaia AI - Launcher              ║
║        Photo Restoration AI               ║
╚═══════════════════════════════════════════╝` + "\033[0m"

// Launcher owns every handle the bootstrap creates: the log sinks, the dev
// server child, the tracked browser process, and the health monitor. Cleanup
// runs exactly once no matter which path (signal, tray quit, error) ends the
// run.
type Launcher struct {
	cfg  *config.Config
	logs *logger.Set

	checker   *prereq.Checker
	installer *deps.Installer
	ensurer   *envfile.Ensurer
	secrets   envfile.SecretProvider

	server  *devserver.Manager
	browser *browser.Launcher
	monitor *healthMonitor

	mu          sync.Mutex
	app         platform.App
	interrupted bool

	cleanupOnce sync.Once
}

// New wires a Launcher from configuration and an open log set.
func New(cfg *config.Config, logs *logger.Set) *Launcher {
	debugLog := logs.Debug.With().Str("run", logs.RunID()).Logger()

	l := &Launcher{
		cfg:       cfg,
		logs:      logs,
		checker:   prereq.NewChecker(debugLog),
		installer: deps.NewInstaller(debugLog),
		ensurer:   envfile.NewEnsurer(logs.Startup),
	}

	if cfg.Launcher.NonInteractive {
		l.secrets = &envfile.StaticProvider{}
	} else {
		l.secrets = envfile.NewTerminalProvider()
	}
	return l
}

// Run executes the fixed bootstrap sequence, short-circuiting on the first
// failure, then stays resident until a signal or tray quit. A nil return
// means the run shut down cleanly, including an interrupt arriving anywhere
// in the sequence: the signal handler is live from the first step, so a
// Ctrl+C during the install wait or the readiness poll still tears down any
// child already spawned.
func (l *Launcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifyInterrupt(sigChan)
	defer stopInterrupt(sigChan)
	go func() {
		if _, ok := <-sigChan; !ok {
			return
		}
		l.logs.Startup.Info().Msg("received shutdown signal")
		l.interrupt(cancel)
	}()

	defer l.cleanup()

	if err := l.bootstrap(ctx); err != nil {
		if l.wasInterrupted() {
			l.logs.Startup.Info().Msg("interrupted during startup")
			return nil
		}
		return err
	}

	return l.stayResident()
}

// bootstrap is the numbered step sequence, stopping at the first failure.
func (l *Launcher) bootstrap(ctx context.Context) error {
	fmt.Println(banner)
	l.logs.Startup.Info().Msg("Tissaia AI Launcher started")
	l.logs.Startup.Info().Str("root", l.cfg.Paths.Root).Str("platform", runtime.GOOS).
		Str("run", l.logs.RunID()).Msg("environment")

	l.logs.Startup.Info().Msg("[1/6] Checking Node.js...")
	nodeVersion, err := l.checker.CheckNode(ctx)
	if err != nil {
		l.logs.Startup.Error().Msg("Node.js not found! Install it from https://nodejs.org/")
		return err
	}
	l.logs.Startup.Info().Msgf("  ✓ Node.js %s found", nodeVersion)

	npmVersion, err := l.checker.CheckNPM(ctx)
	if err != nil {
		l.logs.Startup.Error().Msg("npm not found!")
		return err
	}
	l.logs.Startup.Info().Msgf("  ✓ npm %s found", npmVersion)

	l.logs.Startup.Info().Msg("[2/6] Checking Chrome/Chromium...")
	chromePath, chromeFound := l.checker.LocateChrome()
	if chromeFound {
		l.logs.Startup.Info().Msgf("  ✓ Chrome found: %s", chromePath)
	} else {
		l.logs.Startup.Warn().Msg("  Chrome not found - will use default browser")
	}

	l.logs.Startup.Info().Msg("[3/6] Checking dependencies...")
	if deps.Present(l.cfg.Paths.Root) {
		l.logs.Startup.Info().Msg("  ✓ Dependencies already installed")
	} else {
		l.logs.Startup.Info().Msg("[4/6] Installing dependencies, this may take a few minutes...")
		installLog := filepath.Join(l.logsDir(), "npm_install.log")
		if err := l.installer.Install(ctx, l.cfg.Paths.Root, installLog); err != nil {
			l.logs.Startup.Error().Err(err).Msg("  ✗ Installation failed")
			return err
		}
		l.logs.Startup.Info().Msg("  ✓ Dependencies installed successfully")
	}

	l.logs.Startup.Info().Msg("[5/6] Checking configuration...")
	envPath := filepath.Join(l.cfg.Paths.Root, l.cfg.Paths.EnvFile)
	configured, err := l.ensurer.Ensure(envPath, l.secrets)
	if err != nil {
		l.logs.Startup.Error().Err(err).Msg("  ✗ Configuration failed")
		return err
	}
	if configured {
		l.logs.Startup.Info().Msg("  ✓ Configuration found")
	} else {
		l.logs.Startup.Info().Msg("  → Running in demo mode")
	}

	l.logs.Startup.Info().Msg("[6/6] Starting development server...")
	if err := l.startServer(ctx); err != nil {
		l.logs.Startup.Error().Err(err).Msg("  ✗ Server failed to start")
		return err
	}
	l.logs.Startup.Info().Msgf("  ✓ Server ready at %s", l.cfg.Server.URL)

	l.browser = browser.NewLauncher(chromePath,
		l.cfg.Browser.WindowWidth, l.cfg.Browser.WindowHeight,
		l.logs.Debug, l.logs.Chat)
	if err := l.browser.Launch(l.cfg.Server.URL); err != nil {
		l.logs.Startup.Error().Err(err).Msg("  ✗ Failed to launch browser")
		return err
	}
	l.logs.Startup.Info().Msg("  ✓ Browser launched")

	if l.cfg.Health.Enabled {
		monitor, err := newHealthMonitor(l.cfg.Server.URL, l.cfg.Health.Interval(), l.logs.Debug)
		if err != nil {
			l.logs.Startup.Warn().Err(err).Msg("health monitor unavailable")
		} else {
			l.monitor = monitor
			monitor.Start()
		}
	}

	l.logs.Startup.Info().Msg("✓ TISSAIA AI READY")
	l.logs.Startup.Info().Msgf("  URL: %s", l.cfg.Server.URL)
	l.logs.Startup.Info().Msgf("  Logs: %s", l.logsDir())
	l.logs.Startup.Info().Msgf("  Startup log: %s", l.logs.StartupPath())
	return nil
}

// startServer spawns the dev server and waits for its root URL to answer.
func (l *Launcher) startServer(ctx context.Context) error {
	l.server = devserver.NewManager(devserver.Config{
		URL:     l.cfg.Server.URL,
		Root:    l.cfg.Paths.Root,
		LogPath: filepath.Join(l.logsDir(), "server.log"),
		Command: l.cfg.Server.Command,
		Poll: poll.Config{
			Interval:   l.cfg.Poll.PollInterval(),
			PerAttempt: l.cfg.Poll.PerAttemptTimeout(),
			Deadline:   l.cfg.Poll.OverallTimeout(),
		},
	}, l.logs.Debug.With().Str("run", l.logs.RunID()).Logger())

	return l.server.Start(ctx)
}

// stayResident blocks in the tray event loop (or a console loop when no tray
// is available) until quit. The signal handler and the tray quit action both
// funnel into app.Stop, which is idempotent.
func (l *Launcher) stayResident() error {
	app := platform.NewApp(platform.AppConfig{
		ServerURL: l.cfg.Server.URL,
		LogsDir:   l.logsDir(),
		NoTray:    l.cfg.Launcher.NoTray,
		OnQuit: func() {
			l.logs.Chat.Info().Msg("[SYSTEM] Application shutdown initiated by user")
			// On macOS the tray quit terminates the process before Run
			// returns, so teardown has to happen here. cleanup is
			// once-guarded against the deferred call in Run.
			l.cleanup()
		},
	})

	l.mu.Lock()
	l.app = app
	alreadyInterrupted := l.interrupted
	l.mu.Unlock()
	if alreadyInterrupted {
		// The signal beat us here; don't enter the loop at all.
		app.Stop()
		return nil
	}

	if l.cfg.Launcher.NoTray {
		l.logs.Startup.Info().Msg("Application running, press Ctrl+C to stop")
	} else {
		l.logs.Startup.Info().Msg("Application running in system tray")
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("resident loop: %w", err)
	}
	l.logs.Startup.Info().Msg("Shutting down...")
	return nil
}

// interrupt is the shared signal path. During bootstrap it cancels the
// sequence context so blocking steps (install wait, readiness poll) abort;
// once resident it stops the platform app as well.
func (l *Launcher) interrupt(cancel context.CancelFunc) {
	l.mu.Lock()
	l.interrupted = true
	app := l.app
	l.mu.Unlock()

	cancel()
	if app != nil {
		app.Stop()
	}
}

func (l *Launcher) wasInterrupted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interrupted
}

// cleanup tears down every handle the run created. Safe against the signal
// handler and a tray quit racing each other.
func (l *Launcher) cleanup() {
	l.cleanupOnce.Do(func() {
		l.logs.Chat.Info().Msg("[SYSTEM] Application shutdown")

		if l.monitor != nil {
			l.monitor.Stop()
		}
		if l.server != nil {
			if err := l.server.Stop(); err != nil {
				l.logs.Debug.Error().Err(err).Msg("server stop")
			}
		}
		if l.browser != nil {
			l.browser.Terminate()
		}
		l.logs.Startup.Info().Msg("  ✓ Cleanup complete")
	})
}

func (l *Launcher) logsDir() string {
	return filepath.Join(l.cfg.Paths.Root, l.cfg.Paths.Logs)
}
