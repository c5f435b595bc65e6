//go:build !windows && !darwin

package platform

import (
	"os/exec"
	"sync"
)

// No tray support here: the app stays resident as a plain blocking loop and is
// stopped by the signal handler.
type app struct {
	config   AppConfig
	done     chan struct{}
	stopOnce sync.Once
}

func NewApp(cfg AppConfig) App {
	return &app{
		config: cfg,
		done:   make(chan struct{}),
	}
}

func (a *app) Run() error {
	<-a.done
	return nil
}

func (a *app) OpenBrowser(url string) error {
	return exec.Command("xdg-open", url).Start()
}

func (a *app) Stop() {
	a.stopOnce.Do(func() {
		close(a.done)
		if a.config.OnQuit != nil {
			a.config.OnQuit()
		}
	})
}
