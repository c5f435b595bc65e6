// Package platform provides the resident-mode capability: an OS tray icon
// where the platform supports one, a blocking console loop everywhere else.
package platform

// AppConfig configures the resident app.
type AppConfig struct {
	ServerURL string
	LogsDir   string
	NoTray    bool
	OnQuit    func()
}

// App keeps the launcher resident after a successful start. Run blocks until
// Stop is called (tray quit, signal handler, or fatal error path); Stop is
// safe to call from any goroutine and more than once.
type App interface {
	Run() error
	OpenBrowser(url string) error
	Stop()
}
