package deps

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstaller(command ...string) *Installer {
	i := NewInstaller(zerolog.Nop())
	i.Command = command
	i.Console = &bytes.Buffer{}
	return i
}

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("install tests need a unix shell")
	}
}

func TestPresent(t *testing.T) {
	root := t.TempDir()
	assert.False(t, Present(root))

	require.NoError(t, os.Mkdir(filepath.Join(root, "node_modules"), 0o755))
	assert.True(t, Present(root))
}

func TestPresent_FileIsNotACache(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules"), nil, 0o644))
	assert.False(t, Present(root))
}

func TestInstall_ExitZeroSucceeds(t *testing.T) {
	requireUnix(t)

	root := t.TempDir()
	logPath := filepath.Join(root, "npm_install.log")
	i := newTestInstaller("sh", "-c", "echo installed 42 packages")

	require.NoError(t, i.Install(context.Background(), root, logPath))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "installed 42 packages")
}

func TestInstall_NonZeroExitFails(t *testing.T) {
	requireUnix(t)

	root := t.TempDir()
	logPath := filepath.Join(root, "npm_install.log")
	i := newTestInstaller("sh", "-c", "exit 1")

	err := i.Install(context.Background(), root, logPath)
	require.Error(t, err)
	// The error points the user at the install log.
	assert.Contains(t, err.Error(), logPath)
}

func TestInstall_SpawnFailureNamesLog(t *testing.T) {
	root := t.TempDir()
	logPath := filepath.Join(root, "npm_install.log")
	i := newTestInstaller(filepath.Join(root, "no-such-binary"))

	err := i.Install(context.Background(), root, logPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), logPath)
}
