package launcher

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

const healthProbeTimeout = 2 * time.Second

// healthMonitor periodically rechecks the dev server root URL while the
// launcher is resident and logs reachability transitions. Observational only:
// it never restarts anything.
type healthMonitor struct {
	scheduler gocron.Scheduler
	client    *http.Client
	url       string
	log       zerolog.Logger

	mu        sync.Mutex
	reachable bool
}

func newHealthMonitor(url string, interval time.Duration, log zerolog.Logger) (*healthMonitor, error) {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create health scheduler: %w", err)
	}

	m := &healthMonitor{
		scheduler: gs,
		client:    &http.Client{Timeout: healthProbeTimeout},
		url:       url,
		log:       log,
		reachable: true, // the readiness poll just succeeded
	}

	_, err = gs.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(m.check),
		gocron.WithName("dev-server-health"),
	)
	if err != nil {
		return nil, fmt.Errorf("create health job: %w", err)
	}
	return m, nil
}

func (m *healthMonitor) Start() {
	m.scheduler.Start()
}

func (m *healthMonitor) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		m.log.Debug().Err(err).Msg("health scheduler shutdown")
	}
}

func (m *healthMonitor) check() {
	resp, err := m.client.Get(m.url)
	up := err == nil
	if resp != nil {
		resp.Body.Close()
	}

	m.mu.Lock()
	changed := up != m.reachable
	m.reachable = up
	m.mu.Unlock()

	if !changed {
		return
	}
	if up {
		m.log.Info().Str("url", m.url).Msg("dev server reachable again")
	} else {
		m.log.Warn().Err(err).Str("url", m.url).Msg("dev server unreachable")
	}
}
