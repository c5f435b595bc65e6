package envfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProvider tracks whether it was consulted.
type recordingProvider struct {
	value  string
	called bool
}

func (p *recordingProvider) Secret() (string, error) {
	p.called = true
	return p.value, nil
}

func TestEnsure_ConfiguredKeyLeavesFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_KEY=abc123\n"), 0o600))

	provider := &recordingProvider{value: "should-not-be-used"}
	configured, err := NewEnsurer(zerolog.Nop()).Ensure(path, provider)

	require.NoError(t, err)
	assert.True(t, configured)
	assert.False(t, provider.called, "provider must not be consulted when the key is set")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=abc123\n", string(content))
}

func TestEnsure_UnparseableFileWithKeyIsNotRewritten(t *testing.T) {
	// A stray line the dotenv parser chokes on must not cost the user a
	// key that is plainly there.
	path := filepath.Join(t.TempDir(), ".env")
	original := "this line has no equals sign\nAPI_KEY=abc123\nOTHER=kept\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o600))

	provider := &recordingProvider{value: "should-not-be-used"}
	configured, err := NewEnsurer(zerolog.Nop()).Ensure(path, provider)

	require.NoError(t, err)
	assert.True(t, configured)
	assert.False(t, provider.called)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(content))
}

func TestEnsure_UnparseableFileWithoutKeyIsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("garbage without a key\n"), 0o600))

	configured, err := NewEnsurer(zerolog.Nop()).Ensure(path, &StaticProvider{Value: "fresh-key"})

	require.NoError(t, err)
	assert.True(t, configured)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=fresh-key\n", string(content))
}

func TestEnsure_EmptyAssignmentCountsAsUnconfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_KEY=\n"), 0o600))

	provider := &recordingProvider{value: "fresh-key"}
	configured, err := NewEnsurer(zerolog.Nop()).Ensure(path, provider)

	require.NoError(t, err)
	assert.True(t, configured)
	assert.True(t, provider.called)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=fresh-key\n", string(content))
}

func TestEnsure_MissingFileWritesProvidedKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	configured, err := NewEnsurer(zerolog.Nop()).Ensure(path, &StaticProvider{Value: "k-123"})

	require.NoError(t, err)
	assert.True(t, configured)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=k-123\n", string(content))
}

func TestEnsure_EmptyAnswerSelectsDemoMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	configured, err := NewEnsurer(zerolog.Nop()).Ensure(path, &StaticProvider{})

	require.NoError(t, err)
	assert.False(t, configured)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY=\n", string(content))
}

func TestTerminalProvider_ReadsTrimmedLine(t *testing.T) {
	p := &TerminalProvider{
		In:  strings.NewReader("  my-key  \n"),
		Out: &strings.Builder{},
	}
	value, err := p.Secret()
	require.NoError(t, err)
	assert.Equal(t, "my-key", value)
}

func TestTerminalProvider_EOFMeansDemoMode(t *testing.T) {
	p := &TerminalProvider{
		In:  strings.NewReader(""),
		Out: &strings.Builder{},
	}
	value, err := p.Secret()
	require.NoError(t, err)
	assert.Empty(t, value)
}
