// Package browser opens the launched application: Chrome app mode when a
// Chrome binary was located, the OS default browser otherwise.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog"
)

// Launcher spawns the browser pointed at the dev server.
type Launcher struct {
	chromePath   string // empty means use the OS default browser
	windowWidth  int
	windowHeight int

	log  zerolog.Logger
	chat zerolog.Logger

	// Tracked so the orchestrator can terminate the app-mode window on exit.
	process *exec.Cmd
}

// NewLauncher creates a Launcher. chromePath may be empty.
func NewLauncher(chromePath string, width, height int, log, chat zerolog.Logger) *Launcher {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 800
	}
	return &Launcher{
		chromePath:   chromePath,
		windowWidth:  width,
		windowHeight: height,
		log:          log,
		chat:         chat,
	}
}

// Launch opens url. With a located Chrome it spawns an app-mode window with a
// fixed size and extensions disabled; otherwise it hands the URL to the OS
// default handler. Either way one launch line goes to the chat log.
func (l *Launcher) Launch(url string) error {
	var err error
	if l.chromePath != "" {
		err = l.launchAppMode(url)
	} else {
		err = openDefault(url)
	}
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	l.chat.Info().Msgf("[SYSTEM] Application launched at %s", url)
	return nil
}

func (l *Launcher) launchAppMode(url string) error {
	cmd := exec.Command(l.chromePath,
		fmt.Sprintf("--app=%s", url),
		fmt.Sprintf("--window-size=%d,%d", l.windowWidth, l.windowHeight),
		"--disable-extensions",
		"--disable-plugins",
	)
	// Output discarded: app-mode Chrome is chatty and none of it is ours.
	if err := cmd.Start(); err != nil {
		return err
	}
	l.process = cmd
	l.log.Debug().Int("pid", cmd.Process.Pid).Msg("chrome app launched")
	return nil
}

// Terminate kills a tracked app-mode window, if any. Best effort.
func (l *Launcher) Terminate() {
	if l.process == nil || l.process.Process == nil {
		return
	}
	if err := l.process.Process.Kill(); err == nil {
		l.log.Debug().Msg("chrome process terminated")
	}
	l.process = nil
}

func openDefault(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
