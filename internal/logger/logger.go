// Package logger provides the launcher's log sinks: a per-run startup log
// mirrored to the console, a cumulative debug log, and a cumulative chat log.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const fileTimeFormat = "2006-01-02 15:04:05"

// Config holds logger configuration.
type Config struct {
	Level      string
	Dir        string // directory for log files, created on demand
	MaxSizeMB  int    // rotation bound for the cumulative logs
	MaxBackups int
	NoConsole  bool // suppress console mirroring (tests)
}

// Set owns the launcher's log destinations. Construct with New, release with
// Close on every exit path.
type Set struct {
	Startup zerolog.Logger
	Debug   zerolog.Logger
	Chat    zerolog.Logger

	runID       string
	startupPath string
	closers     []io.Closer
}

// New creates the log directory and opens all sinks. The startup log gets a
// fresh timestamped file per run; debug.log and chat.log accumulate across runs.
func New(cfg Config) (*Set, error) {
	if cfg.Dir == "" {
		cfg.Dir = "logs"
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	s := &Set{runID: uuid.NewString()}

	s.startupPath = filepath.Join(cfg.Dir, fmt.Sprintf("startup_%s.log", time.Now().Format("20060102_150405")))
	startupFile, err := os.OpenFile(s.startupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open startup log: %w", err)
	}
	s.closers = append(s.closers, startupFile)

	level := parseLevel(cfg.Level)

	fileOut := zerolog.ConsoleWriter{
		Out:        startupFile,
		NoColor:    true,
		TimeFormat: fileTimeFormat,
	}

	var startupOut io.Writer = fileOut
	if !cfg.NoConsole {
		console := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.Kitchen,
		}
		// The console mirrors at info; the file keeps everything.
		startupOut = zerolog.MultiLevelWriter(fileOut, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: console},
			Level:  zerolog.InfoLevel,
		})
	}

	s.Startup = zerolog.New(startupOut).
		Level(level).
		With().
		Timestamp().
		Logger()

	s.Debug = s.newCumulative(cfg, "debug.log", zerolog.DebugLevel, false)
	s.Chat = s.newCumulative(cfg, "chat.log", zerolog.InfoLevel, true)

	return s, nil
}

// newCumulative opens a lumberjack-rotated sink. Chat lines carry only a
// timestamp and message, matching the historical chat.log format.
func (s *Set) newCumulative(cfg Config, name string, level zerolog.Level, bare bool) zerolog.Logger {
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, name),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		LocalTime:  true,
	}
	s.closers = append(s.closers, rotator)

	out := zerolog.ConsoleWriter{
		Out:        rotator,
		NoColor:    true,
		TimeFormat: fileTimeFormat,
	}
	if bare {
		out.PartsOrder = []string{zerolog.TimestampFieldName, zerolog.MessageFieldName}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// RunID identifies this launcher run in the debug log.
func (s *Set) RunID() string {
	return s.runID
}

// StartupPath returns the path of this run's startup log file.
func (s *Set) StartupPath() string {
	return s.startupPath
}

// WithComponent returns a startup-log child with a component field.
func (s *Set) WithComponent(component string) zerolog.Logger {
	return s.Startup.With().Str("component", component).Logger()
}

// Close releases all file sinks.
func (s *Set) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
