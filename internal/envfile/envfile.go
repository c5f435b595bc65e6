// Package envfile ensures the web application's .env file carries an API key.
// A missing key is not fatal: the application degrades to demo mode.
package envfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Key is the entry the web application reads from its .env file.
const Key = "API_KEY"

// emptyAssignment is what gets written when no secret is provided. A file
// holding exactly this counts as unconfigured on the next run.
const emptyAssignment = Key + "=\n"

// SecretProvider supplies the API key when the .env file lacks one.
type SecretProvider interface {
	// Secret returns the key value, or "" to proceed in demo mode.
	Secret() (string, error)
}

// Ensurer checks and, when needed, writes the .env file.
type Ensurer struct {
	log zerolog.Logger
}

// NewEnsurer creates an Ensurer.
func NewEnsurer(log zerolog.Logger) *Ensurer {
	return &Ensurer{log: log}
}

// Ensure reports whether the file at path carries a non-empty API key. When it
// does not, the provider is consulted: a non-empty answer is written as
// API_KEY=<value>, an empty answer writes the empty assignment and the run
// proceeds in demo mode (configured=false). Only a write failure is an error.
func (e *Ensurer) Ensure(path string, provider SecretProvider) (bool, error) {
	values, err := godotenv.Read(path)
	switch {
	case err == nil && values[Key] != "":
		e.log.Debug().Str("path", path).Msg("api key already configured")
		return true, nil
	case err != nil && !os.IsNotExist(err):
		// The file exists but does not parse as dotenv. A key assignment
		// buried in it still counts as configured; rewriting would drop
		// whatever else the file carries.
		if raw, readErr := os.ReadFile(path); readErr == nil && hasKeyAssignment(string(raw)) {
			e.log.Warn().Str("path", path).Err(err).
				Msg("env file does not parse cleanly but carries an api key, leaving it alone")
			return true, nil
		}
	}

	value, err := provider.Secret()
	if err != nil {
		return false, fmt.Errorf("obtain api key: %w", err)
	}
	value = strings.TrimSpace(value)

	content := emptyAssignment
	if value != "" {
		content = fmt.Sprintf("%s=%s\n", Key, value)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}

	if value == "" {
		e.log.Info().Msg("no api key provided, running in demo mode")
		return false, nil
	}
	e.log.Debug().Str("path", path).Msg("api key saved")
	return true, nil
}

// hasKeyAssignment scans raw file content for an API_KEY line with a
// non-empty value. Used only when the dotenv parser rejects the file.
func hasKeyAssignment(raw string) bool {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, Key+"="); ok && strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

// TerminalProvider prompts for the secret on an interactive terminal.
type TerminalProvider struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminalProvider prompts on stdin/stdout.
func NewTerminalProvider() *TerminalProvider {
	return &TerminalProvider{In: os.Stdin, Out: os.Stdout}
}

// Secret reads one line from the terminal. An empty line selects demo mode.
func (p *TerminalProvider) Secret() (string, error) {
	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, "  Get your free API key at: https://makersuite.google.com/app/apikey")
	fmt.Fprintln(p.Out, "  Press Enter to skip and use demo mode")
	fmt.Fprintln(p.Out)
	fmt.Fprint(p.Out, "  Enter your API key: ")

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// StaticProvider returns a fixed value without prompting. An empty value
// selects demo mode, which is the non-interactive default.
type StaticProvider struct {
	Value string
}

// Secret returns the fixed value.
func (p *StaticProvider) Secret() (string, error) {
	return p.Value, nil
}
