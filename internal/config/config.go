package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all launcher configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Poll     PollConfig     `mapstructure:"poll"`
	Health   HealthConfig   `mapstructure:"health"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Launcher LauncherConfig `mapstructure:"launcher"`
}

// ServerConfig describes the dev server the launcher supervises. Command is
// the spawn argv; empty means the npm dev script.
type ServerConfig struct {
	URL     string   `mapstructure:"url"`
	Port    int      `mapstructure:"port"`
	Command []string `mapstructure:"command"`
}

// PathsConfig holds filesystem locations relative to the project root.
type PathsConfig struct {
	Root    string `mapstructure:"root"`
	Logs    string `mapstructure:"logs"`
	EnvFile string `mapstructure:"env_file"`
}

// PollConfig bounds the server readiness poll.
type PollConfig struct {
	IntervalMs   int `mapstructure:"interval_ms"`
	PerAttemptMs int `mapstructure:"per_attempt_ms"`
	TimeoutSec   int `mapstructure:"timeout_sec"`
}

// HealthConfig controls the resident-mode health recheck.
type HealthConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	IntervalSec int  `mapstructure:"interval_sec"`
}

// BrowserConfig holds Chrome app-mode window settings.
type BrowserConfig struct {
	WindowWidth  int `mapstructure:"window_width"`
	WindowHeight int `mapstructure:"window_height"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LauncherConfig holds behavior toggles for the orchestrator.
type LauncherConfig struct {
	NoTray         bool `mapstructure:"no_tray"`
	NonInteractive bool `mapstructure:"non_interactive"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:  "http://localhost:5173",
			Port: 5173,
		},
		Paths: PathsConfig{
			Root:    ".",
			Logs:    "logs",
			EnvFile: ".env",
		},
		Poll: PollConfig{
			IntervalMs:   500,
			PerAttemptMs: 1000,
			TimeoutSec:   30,
		},
		Health: HealthConfig{
			Enabled:     true,
			IntervalSec: 30,
		},
		Browser: BrowserConfig{
			WindowWidth:  1280,
			WindowHeight: 800,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("tissaia")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.tissaia")
	}

	v.SetEnvPrefix("TISSAIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("paths.root", d.Paths.Root)
	v.SetDefault("paths.logs", d.Paths.Logs)
	v.SetDefault("paths.env_file", d.Paths.EnvFile)

	v.SetDefault("poll.interval_ms", d.Poll.IntervalMs)
	v.SetDefault("poll.per_attempt_ms", d.Poll.PerAttemptMs)
	v.SetDefault("poll.timeout_sec", d.Poll.TimeoutSec)

	v.SetDefault("health.enabled", d.Health.Enabled)
	v.SetDefault("health.interval_sec", d.Health.IntervalSec)

	v.SetDefault("browser.window_width", d.Browser.WindowWidth)
	v.SetDefault("browser.window_height", d.Browser.WindowHeight)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)

	v.SetDefault("launcher.no_tray", false)
	v.SetDefault("launcher.non_interactive", false)
}

// PollInterval returns the readiness poll interval.
func (c *PollConfig) PollInterval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// PerAttemptTimeout returns the per-attempt HTTP timeout.
func (c *PollConfig) PerAttemptTimeout() time.Duration {
	return time.Duration(c.PerAttemptMs) * time.Millisecond
}

// OverallTimeout returns the overall readiness deadline.
func (c *PollConfig) OverallTimeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Interval returns the health recheck interval.
func (c *HealthConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSec) * time.Second
}
