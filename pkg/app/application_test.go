package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanity/pkg/config"
	"vanity/pkg/logger"
	"vanity/pkg/middleware"
)

type routeHandler struct {
	method string
	path   string
}

func (h routeHandler) RegisterRoutes(router *httprouter.Router) {
	router.Handle(h.method, h.path, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func testConfig(secret string) *config.Config {
	return &config.Config{
		Log:               logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
		Port:              "0",
		ContactFlowSecret: secret,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1024,
		ShutdownTimeout:   time.Second,
	}
}

func newTestApp(t *testing.T, secret string) *Application {
	t.Helper()
	a := NewApplication(testConfig(secret))
	a.SetApp(
		routeHandler{method: http.MethodGet, path: "/health"},
		routeHandler{method: http.MethodPost, path: "/api/v1/vanity-numbers"},
		routeHandler{method: http.MethodPost, path: ContactFlowPath},
	)
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a
}

func TestHandler_Routing(t *testing.T) {
	a := newTestApp(t, "")

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vanity-numbers", strings.NewReader(`{"phone_number":"8005683000"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHandler_AppStackRejectsWrongContentType(t *testing.T) {
	a := newTestApp(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vanity-numbers", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHandler_ContactFlowSignature(t *testing.T) {
	a := newTestApp(t, "s3cret")
	body := `{"Name":"ContactFlowEvent"}`

	req := httptest.NewRequest(http.MethodPost, ContactFlowPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, ContactFlowPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SignatureHeader, "sha256="+middleware.Sign([]byte(body), "s3cret"))
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/vanity-numbers", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "other routes are not signed")
}

func TestRun_StopsWorkersAndRunsClosersInReverse(t *testing.T) {
	a := NewApplication(testConfig(""))
	a.SetApp(routeHandler{method: http.MethodGet, path: "/health"})

	var (
		mu    sync.Mutex
		steps []string
	)
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		steps = append(steps, s)
	}

	started := make(chan struct{})
	a.AddWorker(Worker{Name: "consumer", Run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		record("worker stopped")
		return ctx.Err()
	}})
	a.OnShutdown("first", func() error { record("first"); return nil })
	a.OnShutdown("second", func() error { record("second"); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	<-started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
	assert.Equal(t, []string{"worker stopped", "second", "first"}, steps)
}
