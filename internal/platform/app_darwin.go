//go:build darwin

package platform

import (
	"os/exec"
	"sync"

	"github.com/progrium/darwinkit/macos/appkit"
	"github.com/progrium/darwinkit/macos/foundation"
	"github.com/progrium/darwinkit/objc"
)

type macApp struct {
	config     AppConfig
	statusItem appkit.StatusItem
	done       chan struct{}
	running    bool
	mu         sync.Mutex
	stopOnce   sync.Once
}

func NewApp(cfg AppConfig) App {
	return &macApp{config: cfg, done: make(chan struct{})}
}

func (a *macApp) Run() error {
	if a.config.NoTray {
		a.mu.Lock()
		a.running = true
		a.mu.Unlock()
		<-a.done
		return nil
	}

	objc.WithAutoreleasePool(func() {
		app := appkit.Application_SharedApplication()
		app.SetActivationPolicy(appkit.ApplicationActivationPolicyAccessory)

		a.statusItem = appkit.StatusBar_SystemStatusBar().StatusItemWithLength(appkit.VariableStatusItemLength)

		if button := a.statusItem.Button(); button.Ptr != nil {
			button.SetTitle("Tissaia")
		}

		menu := appkit.NewMenu()

		openItem := appkit.NewMenuItemWithAction("Open Tissaia", "", func(sender objc.Object) {
			a.OpenBrowser(a.config.ServerURL)
		})
		menu.AddItem(openItem)

		logsItem := appkit.NewMenuItemWithAction("Open Logs", "", func(sender objc.Object) {
			exec.Command("open", a.config.LogsDir).Start()
		})
		menu.AddItem(logsItem)

		menu.AddItem(appkit.MenuItem_SeparatorItem())

		quitItem := appkit.NewMenuItemWithAction("Quit", "q", func(sender objc.Object) {
			a.Stop()
		})
		menu.AddItem(quitItem)

		a.statusItem.SetMenu(menu)

		a.mu.Lock()
		a.running = true
		a.mu.Unlock()

		app.Run()
	})

	return nil
}

func (a *macApp) OpenBrowser(url string) error {
	nsURL := foundation.URL_URLWithString(url)
	if nsURL.Ptr == nil {
		return exec.Command("open", url).Start()
	}
	appkit.Workspace_SharedWorkspace().OpenURL(nsURL)
	return nil
}

func (a *macApp) Stop() {
	a.stopOnce.Do(func() {
		a.mu.Lock()
		wasRunning := a.running && !a.config.NoTray
		a.running = false
		a.mu.Unlock()

		if wasRunning {
			objc.WithAutoreleasePool(func() {
				app := appkit.Application_SharedApplication()
				app.Terminate(nil)
			})
		}

		close(a.done)
		if a.config.OnQuit != nil {
			a.config.OnQuit()
		}
	})
}
