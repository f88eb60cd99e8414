package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"SanctionsExplorer/internal/config"
	"SanctionsExplorer/internal/extract"
	"SanctionsExplorer/internal/infrastructure/feed"
	"SanctionsExplorer/internal/infrastructure/fetch"
	"SanctionsExplorer/internal/logging"
	"SanctionsExplorer/internal/metrics"
	httptransport "SanctionsExplorer/internal/transport/http"
	"SanctionsExplorer/internal/usecase"
)

// Application wires configs to the pipeline and the HTTP query API.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	// One long-lived client, shared by resolver and fetcher, so upstream
	// connections are reused across requests for the process's lifetime.
	fetchTimeout := time.Duration(cfg.Feed.FetchTimeout)
	client := &http.Client{Timeout: fetchTimeout}

	service := usecase.NewService(cfg.Feed.URL, time.Duration(cfg.Feed.CacheTTL), usecase.ServiceDeps{
		Resolver:  feed.NewResolver(client, baseLogger.With("component", "resolver")),
		Fetcher:   fetch.NewHTTPFetcher(client, fetchTimeout),
		Extractor: extract.New(),
		Logger:    baseLogger.With("component", "pipeline"),
		Metrics:   metrics.New(),
	})

	handler := httptransport.NewHandler(service, cfg.Server.DefaultPageSize, baseLogger.With("component", "http"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		server: &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: httptransport.NewRouter(handler),
		},
	}
}

// Run serves the query API until ctx is canceled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("listening", "addr", a.cfg.Server.Addr, "feed", a.cfg.Feed.URL)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.Server.ShutdownTimeout))
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}
