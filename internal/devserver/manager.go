// Package devserver supervises the Vite dev server child process: spawn,
// readiness poll against its root URL, and graceful terminate-then-kill stop.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tissaia/tissaia/internal/poll"
)

// ErrAlreadyStarted is returned by Start on a manager that already ran.
var ErrAlreadyStarted = errors.New("dev server already started")

// State is the manager's lifecycle position.
type State int

const (
	NotStarted State = iota
	Starting
	Ready
	Failed
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Starting:
		return "starting"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config parameterizes the manager.
type Config struct {
	URL       string      // root URL to probe
	Root      string      // working directory for the child
	LogPath   string      // file receiving the child's combined output
	Command   []string    // defaults to ["npm", "run", "dev"]
	Poll      poll.Config // readiness poll bounds
	StopGrace time.Duration
}

// Manager owns the dev server child process. All methods are safe for
// concurrent use; Stop is idempotent.
type Manager struct {
	cfg    Config
	log    zerolog.Logger
	client *http.Client

	mu       sync.Mutex
	state    State
	cmd      *exec.Cmd
	logFile  *os.File
	waitDone chan error
}

// NewManager creates a Manager in the NotStarted state.
func NewManager(cfg Config, log zerolog.Logger) *Manager {
	if len(cfg.Command) == 0 {
		cfg.Command = []string{"npm", "run", "dev"}
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = 5 * time.Second
	}
	if cfg.Poll.Interval <= 0 {
		cfg.Poll = poll.Config{
			Interval:   500 * time.Millisecond,
			PerAttempt: time.Second,
			Deadline:   30 * time.Second,
		}
	}
	return &Manager{
		cfg:    cfg,
		log:    log,
		client: &http.Client{},
		state:  NotStarted,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start spawns the dev server and blocks until its root URL answers or the
// readiness deadline elapses. On timeout the child is stopped and an error
// wrapping poll.ErrDeadline is returned.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.spawn(); err != nil {
		return err
	}

	if err := poll.Until(ctx, "dev server readiness", m.cfg.Poll, m.probe, m.log); err != nil {
		m.mu.Lock()
		m.state = Failed
		m.mu.Unlock()
		if stopErr := m.Stop(); stopErr != nil {
			m.log.Debug().Err(stopErr).Msg("stop after failed readiness")
		}
		return fmt.Errorf("dev server never became ready: %w", err)
	}

	m.mu.Lock()
	m.state = Ready
	m.mu.Unlock()
	m.log.Debug().Str("url", m.cfg.URL).Msg("dev server ready")
	return nil
}

func (m *Manager) spawn() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != NotStarted {
		return ErrAlreadyStarted
	}

	logFile, err := os.Create(m.cfg.LogPath)
	if err != nil {
		return fmt.Errorf("create server log: %w", err)
	}

	cmd := exec.Command(m.cfg.Command[0], m.cfg.Command[1:]...)
	cmd.Dir = m.cfg.Root
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("start dev server: %w", err)
	}

	m.cmd = cmd
	m.logFile = logFile
	m.state = Starting
	m.waitDone = make(chan error, 1)
	go func() {
		m.waitDone <- cmd.Wait()
	}()

	m.log.Debug().Int("pid", cmd.Process.Pid).Str("log", m.cfg.LogPath).Msg("dev server started")
	return nil
}

// probe is one readiness attempt. Any response, whatever the status code,
// means the server is up.
func (m *Manager) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cfg.URL, nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Stop terminates the child: graceful signal, wait up to StopGrace, then a
// hard kill. Calling Stop on a manager that never started, or calling it
// twice, is a no-op.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil {
		if m.state != Failed {
			m.state = Stopped
		}
		return nil
	}

	cmd := m.cmd
	waitDone := m.waitDone
	m.cmd = nil

	defer func() {
		if m.logFile != nil {
			m.logFile.Close()
			m.logFile = nil
		}
		if m.state != Failed {
			m.state = Stopped
		}
	}()

	if err := terminate(cmd); err != nil {
		m.log.Debug().Err(err).Msg("terminate signal failed, killing")
		_ = cmd.Process.Kill()
		<-waitDone
		return nil
	}

	select {
	case <-waitDone:
		m.log.Debug().Msg("dev server stopped")
	case <-time.After(m.cfg.StopGrace):
		m.log.Debug().Msg("dev server unresponsive, killing")
		_ = cmd.Process.Kill()
		<-waitDone
	}
	return nil
}

// terminate asks the child to exit. Windows has no SIGTERM delivery for
// arbitrary processes, so the kill there is immediate.
func terminate(cmd *exec.Cmd) error {
	if runtime.GOOS == "windows" {
		return cmd.Process.Kill()
	}
	return cmd.Process.Signal(syscall.SIGTERM)
}
