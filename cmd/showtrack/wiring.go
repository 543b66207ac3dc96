package main

import (
	"context"
	"fmt"

	"github.com/amaumene/showtrack/internal/api/handlers"
	"github.com/amaumene/showtrack/internal/config"
	"github.com/amaumene/showtrack/internal/models"
	"github.com/amaumene/showtrack/internal/services/google"
	"github.com/amaumene/showtrack/internal/services/images"
	"github.com/amaumene/showtrack/internal/services/tmdb"
	"github.com/amaumene/showtrack/internal/sessions"
	"github.com/prometheus/client_golang/prometheus"
)

// openStore returns the configured entity store
func (a *app) openStore() (models.Store, error) {
	switch a.cfg.StoreBackend {
	case config.BackendBolt:
		db, err := models.NewDatabase(a.cfg.DatabaseFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.logger.WithField("file", a.cfg.DatabaseFile).Info("Database initialized")
		return db, nil
	default:
		a.logger.Info("Using in-memory store, data is lost on restart")
		return models.NewMemoryStore(), nil
	}
}

// openSessions returns the configured session store, a cleanup func and the
// health checks it contributes
func (a *app) openSessions(ctx context.Context) (sessions.Store, func(), map[string]handlers.HealthCheck, error) {
	switch a.cfg.SessionBackend {
	case config.BackendRedis:
		store, err := sessions.NewRedisStore(ctx, sessions.RedisOptions{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		}, a.cfg.SessionTTL, a.logger)
		if err != nil {
			return nil, nil, nil, err
		}
		a.logger.WithField("addr", a.cfg.RedisAddr).Info("Redis session store connected")
		closeFn := func() {
			if err := store.Close(); err != nil {
				a.logger.WithError(err).Warn("Failed to close redis client")
			}
		}
		checks := map[string]handlers.HealthCheck{"sessions": store.Ping}
		return store, closeFn, checks, nil
	default:
		return sessions.NewMemoryStore(a.cfg.SessionTTL), func() {}, nil, nil
	}
}

// newResolver builds the Google then TMDB fallback chain. resolutions may
// be nil.
func (a *app) newResolver(resolutions *prometheus.CounterVec) *images.Resolver {
	if a.cfg.GoogleAPIKey == "" || a.cfg.GoogleSearchEngineID == "" {
		a.logger.Warn("Google credentials not set, image search will skip Google")
	}
	if a.cfg.TMDBAPIKey == "" {
		a.logger.Warn("TMDB API key not set, image search will skip TMDB")
	}

	providers := []images.Provider{
		google.NewClient(a.cfg, a.logger),
		tmdb.NewClient(a.cfg, a.logger),
	}
	opts := []images.Option{images.WithTimeout(a.cfg.ImageLookupTimeout)}
	if resolutions != nil {
		opts = append(opts, images.WithMetrics(resolutions))
	}
	return images.NewResolver(providers, a.logger, opts...)
}
