package browser

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatLogger(t *testing.T) (zerolog.Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.log")
	f, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return zerolog.New(f), path
}

func TestNewLauncher_WindowDefaults(t *testing.T) {
	l := NewLauncher("", 0, 0, zerolog.Nop(), zerolog.Nop())
	assert.Equal(t, 1280, l.windowWidth)
	assert.Equal(t, 800, l.windowHeight)
}

func TestLaunch_AppModeLogsChatLine(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a unix stand-in for the chrome binary")
	}

	chat, chatPath := chatLogger(t)
	// "true" accepts the app-mode flags and exits immediately.
	l := NewLauncher("true", 1280, 800, zerolog.Nop(), chat)

	require.NoError(t, l.Launch("http://localhost:5173"))

	content, err := os.ReadFile(chatPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[SYSTEM] Application launched at http://localhost:5173")
}

func TestLaunch_SpawnFailureIsAnError(t *testing.T) {
	dir := t.TempDir()
	chat, chatPath := chatLogger(t)
	l := NewLauncher(filepath.Join(dir, "no-such-chrome"), 1280, 800, zerolog.Nop(), chat)

	require.Error(t, l.Launch("http://localhost:5173"))

	// No launch line on failure.
	content, err := os.ReadFile(chatPath)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestTerminate_NoTrackedProcessIsNoOp(t *testing.T) {
	l := NewLauncher("", 0, 0, zerolog.Nop(), zerolog.Nop())
	l.Terminate()
	l.Terminate()
}
