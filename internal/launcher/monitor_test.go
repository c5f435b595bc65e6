package launcher

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthMonitor_TracksReachabilityTransitions(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	m, err := newHealthMonitor(backend.URL, time.Minute, zerolog.Nop())
	require.NoError(t, err)
	defer m.Stop()

	m.check()
	m.mu.Lock()
	assert.True(t, m.reachable)
	m.mu.Unlock()

	backend.Close()

	m.check()
	m.mu.Lock()
	assert.False(t, m.reachable)
	m.mu.Unlock()
}

func TestHealthMonitor_StopIsSafe(t *testing.T) {
	m, err := newHealthMonitor("http://localhost:0", time.Minute, zerolog.Nop())
	require.NoError(t, err)
	m.Start()
	m.Stop()
}
