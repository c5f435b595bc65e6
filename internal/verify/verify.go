// Package verify drives a headless Chrome against the dev server to confirm
// the page actually renders, capturing screenshots either way.
package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// Config parameterizes a verification run.
type Config struct {
	URL         string
	Selector    string // root element to wait for, default "#root"
	OutDir      string // screenshot directory, default "verification"
	SuccessShot string // default "startup_success.png"
	ErrorShot   string // default "startup_error.png"
	Timeout     time.Duration
}

func (c *Config) applyDefaults() {
	if c.Selector == "" {
		c.Selector = "#root"
	}
	if c.OutDir == "" {
		c.OutDir = "verification"
	}
	if c.SuccessShot == "" {
		c.SuccessShot = "startup_success.png"
	}
	if c.ErrorShot == "" {
		c.ErrorShot = "startup_error.png"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Run launches a headless browser, navigates to the configured URL, waits for
// the root element to attach, and returns the page title. A success screenshot
// is saved; on failure a best-effort error screenshot is attempted and the
// error returned.
func Run(ctx context.Context, cfg Config, log zerolog.Logger) (string, error) {
	cfg.applyDefaults()

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	chrome := launcher.New().Headless(true)
	controlURL, err := chrome.Launch()
	if err != nil {
		return "", fmt.Errorf("launch headless chrome: %w", err)
	}
	// Cleanup removes the temporary user-data dir once the browser is gone.
	defer chrome.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connect to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}

	title, err := verifyPage(page, cfg, log)
	if err != nil {
		saveShot(page, filepath.Join(cfg.OutDir, cfg.ErrorShot), log)
		return "", err
	}
	return title, nil
}

func verifyPage(page *rod.Page, cfg Config, log zerolog.Logger) (string, error) {
	if err := page.Navigate(cfg.URL); err != nil {
		return "", fmt.Errorf("navigate to %s: %w", cfg.URL, err)
	}

	if _, err := page.Element(cfg.Selector); err != nil {
		return "", fmt.Errorf("wait for %s: %w", cfg.Selector, err)
	}

	info, err := page.Info()
	if err != nil {
		return "", fmt.Errorf("read page info: %w", err)
	}
	log.Debug().Str("title", info.Title).Str("url", cfg.URL).Msg("page verified")

	path := filepath.Join(cfg.OutDir, cfg.SuccessShot)
	saveShot(page, path, log)
	return info.Title, nil
}

// saveShot captures a screenshot, swallowing capture failures.
func saveShot(page *rod.Page, path string, log zerolog.Logger) {
	data, err := page.Screenshot(false, nil)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("screenshot capture failed")
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("screenshot write failed")
		return
	}
	log.Debug().Str("path", path).Msg("screenshot saved")
}
