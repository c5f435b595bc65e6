//go:build windows

package platform

import (
	"context"
	"os/exec"
	"sync"

	"github.com/tailscale/walk"
)

type windowsApp struct {
	config     AppConfig
	app        *walk.Application
	notifyIcon *walk.NotifyIcon
	done       chan struct{}
	running    bool
	mu         sync.Mutex
	stopOnce   sync.Once
}

func NewApp(cfg AppConfig) App {
	return &windowsApp{config: cfg, done: make(chan struct{})}
}

func (a *windowsApp) Run() error {
	if a.config.NoTray {
		a.mu.Lock()
		a.running = true
		a.mu.Unlock()
		<-a.done
		return nil
	}

	var err error

	// Must be called before any other Walk functions.
	a.app, err = walk.InitApp()
	if err != nil {
		return err
	}

	walk.App().SetOrganizationName("Tissaia")
	walk.App().SetProductName("Tissaia AI")

	a.notifyIcon, err = walk.NewNotifyIcon()
	if err != nil {
		return err
	}

	if err := a.notifyIcon.SetToolTip("Tissaia AI - Running"); err != nil {
		return err
	}

	a.notifyIcon.MouseDown().Attach(func(x, y int, button walk.MouseButton) {
		if button == walk.LeftButton {
			a.OpenBrowser(a.config.ServerURL)
		}
	})

	openAction := walk.NewAction()
	openAction.SetText("Open Tissaia")
	openAction.Triggered().Attach(func() {
		a.OpenBrowser(a.config.ServerURL)
	})

	logsAction := walk.NewAction()
	logsAction.SetText("Open Logs")
	logsAction.Triggered().Attach(func() {
		exec.Command("explorer", a.config.LogsDir).Start()
	})

	quitAction := walk.NewAction()
	quitAction.SetText("Quit")
	quitAction.Triggered().Attach(func() {
		a.Stop()
	})

	a.notifyIcon.ContextMenu().Actions().Add(openAction)
	a.notifyIcon.ContextMenu().Actions().Add(logsAction)
	a.notifyIcon.ContextMenu().Actions().Add(walk.NewSeparatorAction())
	a.notifyIcon.ContextMenu().Actions().Add(quitAction)

	if err := a.notifyIcon.SetVisible(true); err != nil {
		return err
	}

	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	a.app.Run()
	return nil
}

func (a *windowsApp) OpenBrowser(url string) error {
	cmd := exec.CommandContext(context.Background(), "cmd", "/c", "start", "", url)
	return cmd.Start()
}

func (a *windowsApp) Stop() {
	a.stopOnce.Do(func() {
		a.mu.Lock()
		if a.running {
			if a.notifyIcon != nil {
				a.notifyIcon.Dispose()
			}
			if a.app != nil {
				a.app.Exit(0)
			}
		}
		a.mu.Unlock()

		close(a.done)
		if a.config.OnQuit != nil {
			a.config.OnQuit()
		}
	})
}
