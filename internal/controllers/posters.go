package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/amaumene/showtrack/internal/models"
	"github.com/amaumene/showtrack/internal/services/images"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// PosterController re-resolves posters for shows stuck on the placeholder
type PosterController struct {
	store     models.Store
	resolver  ImageResolver
	refreshes *prometheus.CounterVec
	logger    *logrus.Logger
}

// NewPosterController creates a new poster controller. refreshes may be nil.
func NewPosterController(store models.Store, resolver ImageResolver, refreshes *prometheus.CounterVec, logger *logrus.Logger) *PosterController {
	return &PosterController{
		store:     store,
		resolver:  resolver,
		refreshes: refreshes,
		logger:    logger,
	}
}

// RefreshPlaceholders tries again for every show without a real poster and
// returns how many were upgraded
func (c *PosterController) RefreshPlaceholders(ctx context.Context) (int, error) {
	shows, err := c.store.ListShows(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list shows: %w", err)
	}

	var pending []*models.Show
	for _, show := range shows {
		if !show.HasImage() || images.IsPlaceholder(*show.ImageURL) {
			pending = append(pending, show)
		}
	}
	if len(pending) == 0 {
		c.logger.Debug("No placeholder posters to refresh")
		return 0, nil
	}

	c.logger.WithField("count", len(pending)).Info("Refreshing placeholder posters")

	refreshed := 0
	for _, show := range pending {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}

		image := c.resolver.Resolve(ctx, show.Title)
		if images.IsPlaceholder(image) {
			c.count("unchanged")
			continue
		}

		err := c.store.SetShowImage(ctx, show.ID, image)
		if errors.Is(err, models.ErrNotFound) {
			c.count("deleted")
			continue
		}
		if err != nil {
			c.logger.WithError(err).WithField("show_id", show.ID).Error("Failed to save refreshed poster")
			c.count("error")
			continue
		}

		c.logger.WithFields(logrus.Fields{
			"show_id": show.ID,
			"title":   show.Title,
		}).Info("Poster refreshed")
		c.count("refreshed")
		refreshed++
	}

	return refreshed, nil
}

func (c *PosterController) count(outcome string) {
	if c.refreshes != nil {
		c.refreshes.WithLabelValues(outcome).Inc()
	}
}
