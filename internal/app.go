package internal

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seenkeeper/internal/controllers"
	"seenkeeper/internal/providers"
	"seenkeeper/internal/services"
	"seenkeeper/internal/storage/legacy"
	"seenkeeper/internal/storage/structured"
	"seenkeeper/internal/structures"
)

type App struct {
	Conf         *structures.Config
	Logger       providers.Logger
	Service      services.StorageServiceInterface
	Registration services.RegistrationServiceInterface
	WebServer    *http.Server

	opener    *structured.Opener
	mirror    legacy.Mirror
	scheduler services.MirrorSchedulerInterface
}

func NewApp(apiController *controllers.ApiController, healthController *controllers.HealthController, service services.StorageServiceInterface, registration services.RegistrationServiceInterface, scheduler services.MirrorSchedulerInterface, opener *structured.Opener, mirror legacy.Mirror, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, router, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		Conf:         conf,
		Logger:       logger,
		Service:      service,
		Registration: registration,
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		opener:    opener,
		mirror:    mirror,
		scheduler: scheduler,
	}
}

// Initialize opens storage and runs the legacy migration. It never fails;
// problems leave the service in fallback mode.
func (a *App) Initialize(ctx context.Context) {
	a.Logger.Infof(providers.TypeApp, "Starting %s", a.Conf.AppName)
	a.Service.Initialize(ctx)
}

// Serve blocks until ctx is done or SIGINT/SIGTERM arrives.
func (a *App) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.scheduler.Init()
	defer a.scheduler.Stop()

	serverErr := make(chan error, 1)
	go func() {
		a.Logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.Logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.WebServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.Logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}

func (a *App) Close() {
	if err := a.scheduler.Persist(); err != nil {
		a.Logger.Warnf(providers.TypeStorage, "Legacy mirror left stale: %s", err)
	}
	if err := a.opener.Close(); err != nil {
		a.Logger.Errorf(providers.TypeStorage, "Close structured store: %s", err)
	}
	if err := a.mirror.Close(); err != nil {
		a.Logger.Errorf(providers.TypeStorage, "Close legacy mirror: %s", err)
	}
	a.Logger.Close()
}
