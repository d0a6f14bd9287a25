// Package app wires configuration, storage and services into the HTTP handler
// shared by the standalone server and the serverless entrypoint.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/go-site-directory/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-site-directory/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/go-site-directory/pkg/adapters/session"
	"github.com/wadjakorntonsri/go-site-directory/pkg/config"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/services"
	"github.com/wadjakorntonsri/go-site-directory/pkg/ports"
)

type App struct {
	Handler http.Handler
	Store   *sqlstore.Store
}

// New opens the store and builds the router. Close the store when done.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", cfg.ReportTimezone, err)
	}

	store, err := sqlstore.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &App{
		Handler: handler.NewRouter(cfg, NewServices(cfg, store, services.SystemClock{}, loc), logger),
		Store:   store,
	}, nil
}

// NewServices builds every service on one store handle and one clock
func NewServices(cfg *config.Config, store *sqlstore.Store, clock ports.Clock, loc *time.Location) handler.Services {
	return handler.Services{
		Gate: services.NewAccessGate(services.AccessPolicy{
			ProtectedPrefixes: cfg.ProtectedPrefixes,
			AuthPrefixes:      cfg.AuthPrefixes,
			LoginPath:         cfg.LoginPath,
			LandingPath:       cfg.LandingPath,
			RootPath:          cfg.RootPath,
		}),
		Sessions: session.NewManager(cfg.JWTSecret, cfg.SessionTTL, cfg.IsProduction()).WithClock(clock.Now),
		Visits:   services.NewVisitAggregator(store, store, clock, loc),
		Catalog:  services.NewCatalogService(store, clock),
		Auth:     services.NewAuthService(store, clock),
		Settings: services.NewSettingsService(store, clock),
		Database: store,
	}
}
