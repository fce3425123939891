package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"vanity/pkg/config"
	"vanity/pkg/contracts"
	"vanity/pkg/middleware"
)

// ContactFlowPath is the webhook prefix guarded by signature verification.
const ContactFlowPath = "/api/v1/contact-flow"

// phoneFields are where the rate limiter finds the caller in request bodies.
var phoneFields = []string{"phone_number", "Details.ContactData.CustomerEndpoint.Address"}

// Worker is a background loop that runs until its context is cancelled.
type Worker struct {
	Name string
	Run  func(ctx context.Context) error
}

type closer struct {
	name string
	fn   func() error
}

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.PhoneRateLimiter
	healthHandler    http.Handler
	appHTTPHandler   http.Handler
	workers          []Worker
	closers          []closer
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp builds the health and application handler stacks and the server.
func (a *Application) SetApp(health contracts.Handler, handlers ...contracts.Handler) {
	a.setHealthHandler(health)
	a.setAppHandler(handlers...)
	a.setAppServer()
}

func (a *Application) setHealthHandler(health contracts.Handler) {
	router := httprouter.New()
	health.RegisterRoutes(router)

	a.healthHandler = middleware.Chain(router,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
	)
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(handlers ...contracts.Handler) {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewPhoneRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		middleware.JSONBodyPhoneExtractor(phoneFields...),
		a.cfg.Log,
	)

	mws := []middleware.Middleware{
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize), a.cfg.Log),
		middleware.ContentTypeValidation(a.cfg.Log),
	}
	if a.cfg.ContactFlowSecret != "" {
		mws = append(mws, middleware.SignatureVerification(a.cfg.ContactFlowSecret, ContactFlowPath, a.cfg.Log))
		a.cfg.Log.Info("Contact flow signature verification enabled", "path", ContactFlowPath)
	}
	mws = append(mws,
		middleware.PhoneRateLimit(a.rateLimiter),
		middleware.RequestTimeout(a.cfg.RequestTimeout, a.cfg.Log),
		middleware.Idempotency(a.idempotencyStore, a.cfg.Log),
	)

	a.appHTTPHandler = middleware.Chain(router, mws...)
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

func (a *Application) setAppServer() {
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}
	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// Handler routes health probes and application traffic to their stacks.
func (a *Application) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHTTPHandler)
	return mux
}

func (a *Application) AddWorker(w Worker) {
	a.workers = append(a.workers, w)
}

// OnShutdown registers fn to run after the server and workers have stopped.
// Functions run in reverse registration order.
func (a *Application) OnShutdown(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *Application) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		a.cfg.Log.Fatal("HTTP server failed", "error", err)
	}
}

func (a *Application) run(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	g, gctx := errgroup.WithContext(workerCtx)
	for _, w := range a.workers {
		a.cfg.Log.Info("Starting background worker", "worker", w.Name)
		g.Go(func() error {
			err := w.Run(gctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				a.cfg.Log.Error("Background worker stopped", "worker", w.Name, "error", err)
				return err
			}
			return nil
		})
	}

	var serverErr error
	select {
	case serverErr = <-serverErrors:
	case <-ctx.Done():
		a.cfg.Log.Info("Shutdown signal received")
	}

	a.gracefulShutdown(cancelWorkers, g)
	return serverErr
}

func (a *Application) gracefulShutdown(cancelWorkers context.CancelFunc, workers *errgroup.Group) {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	cancelWorkers()
	if err := workers.Wait(); err != nil {
		a.cfg.Log.Error("Background worker exited with error", "error", err)
	}
	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.cfg.Log.Error("Shutdown step failed", "step", c.name, "error", err)
		}
	}

	a.cfg.Log.Info("Server stopped gracefully")
}
