// Package deps checks for and installs the web application's npm dependencies.
package deps

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

var spinnerGlyphs = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerInterval = 100 * time.Millisecond

// Present reports whether the dependency cache (node_modules) exists under root.
func Present(root string) bool {
	info, err := os.Stat(filepath.Join(root, "node_modules"))
	return err == nil && info.IsDir()
}

// Installer runs npm install, blocking until it exits.
type Installer struct {
	log zerolog.Logger

	// Command defaults to ["npm", "install"].
	Command []string

	// Spinner destination; os.Stdout unless overridden in tests.
	Console io.Writer
}

// NewInstaller creates an Installer.
func NewInstaller(log zerolog.Logger) *Installer {
	return &Installer{
		log:     log,
		Command: []string{"npm", "install"},
		Console: os.Stdout,
	}
}

// Install spawns `npm install` in root with combined output redirected to
// logPath and blocks until it exits, animating a spinner on the console. A
// non-zero exit or spawn failure returns an error naming the log file. There
// is no retry and no partial-install detection.
func (i *Installer) Install(ctx context.Context, root, logPath string) error {
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("create install log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, i.Command[0], i.Command[1:]...)
	cmd.Dir = root
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start npm install (see %s): %w", logPath, err)
	}
	i.log.Debug().Int("pid", cmd.Process.Pid).Str("log", logPath).Msg("npm install started")

	stopSpinner := i.spin("Installing")
	err = cmd.Wait()
	stopSpinner()

	if err != nil {
		return fmt.Errorf("npm install failed (see %s): %w", logPath, err)
	}
	i.log.Debug().Msg("npm install completed successfully")
	return nil
}

// spin animates a spinner glyph until the returned function is called.
func (i *Installer) spin(label string) func() {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		n := 0
		for {
			select {
			case <-done:
				fmt.Fprintf(i.Console, "\r%*s\r", len(label)+4, "")
				return
			case <-ticker.C:
				fmt.Fprintf(i.Console, "\r  %c %s...", spinnerGlyphs[n%len(spinnerGlyphs)], label)
				n++
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}
