// Package application provides application initialization and dependency
// wiring: catalog, history store, calculator, HTTP handlers, and server.
package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/awiw642/dmp-packing-service/internal/api"
	"github.com/awiw642/dmp-packing-service/internal/catalog"
	"github.com/awiw642/dmp-packing-service/internal/config"
	"github.com/awiw642/dmp-packing-service/internal/history"
	"github.com/awiw642/dmp-packing-service/internal/packing"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	catalog    catalog.Catalog
	history    history.Store
	calculator packing.Calculator
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	cat := catalog.NewMemoryCatalog()
	for _, spec := range cfg.CustomContainers {
		if err := cat.Put(spec); err != nil {
			return nil, fmt.Errorf("failed to apply custom container %q: %w", spec.Type, err)
		}
	}

	hist, err := openHistory(cfg, logger)
	if err != nil {
		return nil, err
	}

	calc := packing.New(cat)
	handler := api.NewHandler(calc, cat, hist, api.WithHistoryLimit(cfg.HistoryLimit))
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	server := NewServer(cfg, router)

	return &App{
		catalog:    cat,
		history:    hist,
		calculator: calc,
		handler:    handler,
		router:     router,
		logger:     logger,
		server:     server,
	}, nil
}

// openHistory opens the configured history database, or a no-op store when
// no path is configured.
func openHistory(cfg config.Config, logger *zap.Logger) (history.Store, error) {
	if cfg.HistoryDBPath == "" {
		logger.Info("calculation history disabled")
		return history.NewDisabled(), nil
	}

	store, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	logger.Info("calculation history enabled", zap.String("path", cfg.HistoryDBPath))
	return store, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Close releases resources held by the application, the history database included.
func (a *App) Close() error {
	return a.history.Close()
}
