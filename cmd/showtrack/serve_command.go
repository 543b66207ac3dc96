package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/showtrack/internal/api"
	"github.com/amaumene/showtrack/internal/controllers"
	"github.com/amaumene/showtrack/internal/metrics"
	"github.com/amaumene/showtrack/internal/scheduler"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	logger := a.logger
	logger.Info("Starting Showtrack")

	// 1. Storage
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sessionStore, closeSessions, checks, err := a.openSessions(parent)
	if err != nil {
		return fmt.Errorf("failed to initialize sessions: %w", err)
	}
	defer closeSessions()

	// 2. Services
	m := metrics.New()
	resolver := a.newResolver(m.ImageResolutions)

	// 3. Controllers
	accountCtrl := controllers.NewAccountController(store, logger)
	showCtrl := controllers.NewShowController(store, resolver, logger)
	posterCtrl := controllers.NewPosterController(store, resolver, m.PosterRefreshes, logger)
	logger.Info("Controllers initialized")

	// 4. Scheduler
	sched := scheduler.NewScheduler(posterCtrl, a.cfg.PosterRefreshSchedule, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 5. HTTP server
	server := api.NewServer(a.cfg, api.Dependencies{
		Accounts: accountCtrl,
		Shows:    showCtrl,
		Sessions: sessionStore,
		Metrics:  m,
		Checks:   checks,
	}, logger)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.Start(ctx)
	}()

	// 6. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("Showtrack is running")

	select {
	case err := <-serverErrChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		// Start shuts the server down once its context is cancelled
		cancel()
		if err := <-serverErrChan; err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Showtrack stopped")
	return nil
}
