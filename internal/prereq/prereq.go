// Package prereq verifies the external tools the launcher depends on: the
// Node.js runtime, the npm package manager, and (optionally) a Chrome binary.
package prereq

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound reports a required tool that is missing, broken, or too slow to
// answer a version query. The three cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

const versionQueryTimeout = 5 * time.Second

// Checker runs the prerequisite checks.
type Checker struct {
	log zerolog.Logger
}

// NewChecker creates a Checker.
func NewChecker(log zerolog.Logger) *Checker {
	return &Checker{log: log}
}

// CheckNode verifies the Node.js runtime is installed and returns its version.
func (c *Checker) CheckNode(ctx context.Context) (string, error) {
	return c.versionQuery(ctx, "node")
}

// CheckNPM verifies npm is installed and returns its version.
func (c *Checker) CheckNPM(ctx context.Context) (string, error) {
	return c.versionQuery(ctx, "npm")
}

func (c *Checker) versionQuery(ctx context.Context, tool string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionQueryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, tool, "--version").Output()
	if err != nil {
		c.log.Debug().Err(err).Str("tool", tool).Msg("version query failed")
		return "", fmt.Errorf("%s: %w", tool, ErrNotFound)
	}

	version := strings.TrimSpace(string(out))
	c.log.Debug().Str("tool", tool).Str("version", version).Msg("version query ok")
	return version, nil
}

// LocateChrome returns the path of an installed Chrome or Chromium binary.
// Absence is not an error: callers fall back to the OS default browser.
func (c *Checker) LocateChrome() (string, bool) {
	for _, path := range chromeCandidates() {
		if _, err := os.Stat(path); err == nil {
			c.log.Debug().Str("path", path).Msg("chrome located")
			return path, true
		}
	}
	c.log.Debug().Msg("chrome not found, will use default browser")
	return "", false
}

func chromeCandidates() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			filepath.Join(os.Getenv("LOCALAPPDATA"), "Google", "Chrome", "Application", "chrome.exe"),
		}
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
}
