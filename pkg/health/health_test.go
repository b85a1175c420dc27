package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passing() CheckFunc {
	return func(_ context.Context) error { return nil }
}

func failing(msg string) CheckFunc {
	return func(_ context.Context) error { return errors.New(msg) }
}

func serveLive(s *Service) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	return w
}

func serveReady(s *Service) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) statusResponse {
	t.Helper()
	var body statusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestLiveEndpoint_AllPassing(t *testing.T) {
	s := NewService()
	s.AddLiveness("first", time.Second, passing())
	s.AddLiveness("second", time.Second, passing())

	w := serveLive(s)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decodeStatus(t, w).Status)
}

func TestLiveEndpoint_FailingProbe(t *testing.T) {
	s := NewService()
	s.AddLiveness("db", time.Second, failing("connection refused"))

	// Probes start healthy; drive past the failure threshold.
	ctx := context.Background()
	for range failureThreshold {
		s.liveness[0].tick(ctx)
	}

	w := serveLive(s)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decodeStatus(t, w)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "connection refused", body.Checks["db"])
}

func TestLiveEndpoint_FailureBelowThreshold(t *testing.T) {
	s := NewService()
	s.AddLiveness("flaky", time.Second, failing("temporary"))

	ctx := context.Background()
	for range failureThreshold - 1 {
		s.liveness[0].tick(ctx)
	}

	assert.Equal(t, http.StatusOK, serveLive(s).Code)
}

func TestReadyEndpoint_ReadyAndPassing(t *testing.T) {
	s := NewService()
	s.AddReadiness("db", time.Second, passing())
	s.SetReady(true)

	w := serveReady(s)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeStatus(t, w).Status)
}

func TestReadyEndpoint_NotReady(t *testing.T) {
	s := NewService()
	s.AddReadiness("db", time.Second, passing())

	w := serveReady(s)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decodeStatus(t, w)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Contains(t, body.Checks, "_readiness")
}

func TestReadyEndpoint_DrainOnShutdown(t *testing.T) {
	s := NewService()
	s.AddReadiness("db", time.Second, passing())
	s.SetReady(true)

	assert.Equal(t, http.StatusOK, serveReady(s).Code)

	s.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, serveReady(s).Code)
}

func TestReadyEndpoint_OneProbeFailing(t *testing.T) {
	s := NewService()
	s.AddReadiness("db", time.Second, passing())
	s.AddReadiness("feed", time.Second, failing("feed unreachable"))
	s.SetReady(true)

	ctx := context.Background()
	for range failureThreshold {
		s.readiness[1].tick(ctx)
	}

	w := serveReady(s)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decodeStatus(t, w)
	assert.Contains(t, body.Checks, "feed")
	assert.NotContains(t, body.Checks, "db")
}

func TestIsReady(t *testing.T) {
	s := NewService()
	s.AddReadiness("db", time.Second, passing())

	assert.False(t, s.IsReady())
	s.SetReady(true)
	assert.True(t, s.IsReady())
	s.SetReady(false)
	assert.False(t, s.IsReady())
}

func TestProbeRecovery(t *testing.T) {
	down := true
	s := NewService()
	s.AddLiveness("flaky", time.Second, func(_ context.Context) error {
		if down {
			return errors.New("down")
		}
		return nil
	})
	p := s.liveness[0]
	ctx := context.Background()

	for range failureThreshold {
		p.tick(ctx)
	}
	_, failed := p.failure()
	assert.True(t, failed)

	down = false
	p.tick(ctx)
	_, failed = p.failure()
	assert.False(t, failed, "probe should recover after consecutive passes")
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewService()
	s.AddLiveness("noop", time.Second, passing())

	s.Start(context.Background(), 100*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestConcurrentAccess(t *testing.T) {
	s := NewService()
	s.AddLiveness("live", time.Second, failing("err"))
	s.AddReadiness("ready", time.Second, passing())
	s.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, 10*time.Millisecond)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.IsReady()
				serveLive(s)
				serveReady(s)
			}
		}()
	}
	wg.Wait()
	s.Stop()
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))

	err := GoroutineCountCheck(0)(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds threshold")
}

func TestDatabasePingCheck(t *testing.T) {
	assert.NoError(t, DatabasePingCheck(pingerFunc(func(context.Context) error {
		return nil
	}))(context.Background()))

	err := DatabasePingCheck(pingerFunc(func(context.Context) error {
		return errors.New("refused")
	}))(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database")
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
