package prereq

import (
	"context"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionQuery_MissingToolIsNotFound(t *testing.T) {
	c := NewChecker(zerolog.Nop())
	_, err := c.versionQuery(context.Background(), "definitely-not-an-installed-tool")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVersionQuery_ExitZeroSucceeds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a unix 'true' binary")
	}
	c := NewChecker(zerolog.Nop())
	// "true" ignores --version and exits 0; an empty version string is fine.
	_, err := c.versionQuery(context.Background(), "true")
	require.NoError(t, err)
}

func TestChromeCandidates_NonEmptyPerOS(t *testing.T) {
	candidates := chromeCandidates()
	require.NotEmpty(t, candidates)
	for _, p := range candidates {
		assert.NotEmpty(t, p)
	}
}

func TestLocateChrome_AbsenceIsNotAnError(t *testing.T) {
	c := NewChecker(zerolog.Nop())
	path, ok := c.LocateChrome()
	if ok {
		assert.NotEmpty(t, path)
	} else {
		assert.Empty(t, path)
	}
}
