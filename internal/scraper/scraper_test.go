package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gym-occupancy-backend/config"
	"gym-occupancy-backend/internal/cache"
	"gym-occupancy-backend/internal/hours"
	"gym-occupancy-backend/internal/model"
)

var losAngeles, _ = time.LoadLocation("America/Los_Angeles")

// 2025-01-06 is a Monday; the weight room is open 06:00 – 23:00.
var (
	mondayNoon = time.Date(2025, 1, 6, 12, 0, 0, 0, losAngeles)
	mondayLate = time.Date(2025, 1, 6, 23, 30, 0, 0, losAngeles)
)

// fakeDensity is a scripted stand-in for the sensor provider.
type fakeDensity struct {
	mu            sync.Mutex
	displayStatus int
	displayBody   string
	countStatus   int
	countBody     string
	delay         time.Duration

	displayCalls atomic.Int32
	countCalls   atomic.Int32
	authHeader   atomic.Value
}

func (f *fakeDensity) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.authHeader.Store(r.Header.Get("Authorization"))
	f.mu.Lock()
	delay := f.delay
	displayStatus, displayBody := f.displayStatus, f.displayBody
	countStatus, countBody := f.countStatus, f.countBody
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/displays/dsp_test":
		f.displayCalls.Add(1)
		w.WriteHeader(orOK(displayStatus))
		w.Write([]byte(displayBody))
	case "/spaces/spc_test/count":
		f.countCalls.Add(1)
		w.WriteHeader(orOK(countStatus))
		w.Write([]byte(countBody))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// setDisplay swaps the scripted display response.
func (f *fakeDensity) setDisplay(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.displayStatus, f.displayBody = status, body
}

// setCount swaps the scripted count response.
func (f *fakeDensity) setCount(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countStatus, f.countBody = status, body
}

func orOK(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

// recordingObserver remembers every status it is shown.
type recordingObserver struct {
	mu       sync.Mutex
	statuses []*model.OccupancyStatus
}

func (o *recordingObserver) Observe(ctx context.Context, status *model.OccupancyStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, status)
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.statuses)
}

func newTestConfig(densityURL, mindbodyURL string) *config.Config {
	cfg := &config.Config{
		Density: config.DensityConfig{
			BaseURL:    densityURL,
			DisplayID:  "dsp_test",
			SpaceID:    "spc_test",
			ShareToken: "shr_test",
		},
		Mindbody: config.MindbodyConfig{
			BaseURL:  mindbodyURL,
			WidgetID: "3262",
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

func newTestService(t *testing.T, cfg *config.Config, now time.Time, observers ...StatusObserver) *Service {
	t.Helper()
	schedule, err := hours.New(cfg.Facility)
	require.NoError(t, err)
	svc := NewService(cfg, schedule, cache.New(time.Minute), observers...)
	svc.now = func() time.Time { return now }
	return svc
}

func newDensityServer(t *testing.T, f *fakeDensity) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return server
}
