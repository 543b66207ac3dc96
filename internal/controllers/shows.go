package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/showtrack/internal/models"
	"github.com/sirupsen/logrus"
)

// ImageResolver produces a poster reference for a title and never fails
type ImageResolver interface {
	Resolve(ctx context.Context, title string) string
}

// Completed-show time windows offered by the dashboard
const (
	SinceAll      = "all"
	Since30Days   = "30days"
	Since3Months  = "3months"
	SinceLastYear = "year"
)

// CreateShowInput carries the caller-supplied fields of a new show
type CreateShowInput struct {
	Title    string
	Platform models.Platform
	Status   models.Status
}

// ShowFilter narrows a show listing. Since only applies to completed shows.
type ShowFilter struct {
	Status models.Status
	Since  string
}

// Stats summarizes a user's watchlist
type Stats struct {
	Total            int                     `json:"total"`
	Watching         int                     `json:"watching"`
	Planned          int                     `json:"planned"`
	Completed        int                     `json:"completed"`
	CompletedLast30d int                     `json:"completedLast30Days"`
	ByPlatform       map[models.Platform]int `json:"byPlatform"`
}

// ShowController handles watchlist operations for a single owner at a time
type ShowController struct {
	store    models.Store
	resolver ImageResolver
	now      func() time.Time
	logger   *logrus.Logger
}

// NewShowController creates a new show controller
func NewShowController(store models.Store, resolver ImageResolver, logger *logrus.Logger) *ShowController {
	return &ShowController{
		store:    store,
		resolver: resolver,
		now:      time.Now,
		logger:   logger,
	}
}

// List returns the user's shows, optionally filtered
func (c *ShowController) List(ctx context.Context, userID uint64, filter ShowFilter) ([]*models.Show, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &models.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", filter.Status)}
	}
	cutoff, err := sinceCutoff(filter.Since, c.now())
	if err != nil {
		return nil, err
	}

	shows, err := c.store.GetShowsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}

	filtered := make([]*models.Show, 0, len(shows))
	for _, show := range shows {
		if filter.Status != "" && show.Status != filter.Status {
			continue
		}
		if cutoff != nil && show.Status == models.StatusCompleted {
			if show.CompletedAt == nil || show.CompletedAt.Before(*cutoff) {
				continue
			}
		}
		filtered = append(filtered, show)
	}
	return filtered, nil
}

// Create validates the input, resolves a poster and stores the show
func (c *ShowController) Create(ctx context.Context, userID uint64, input CreateShowInput) (*models.Show, error) {
	title, err := NormalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if !input.Platform.Valid() {
		return nil, &models.ValidationError{Field: "platform", Reason: fmt.Sprintf("unknown platform %q", input.Platform)}
	}
	if !input.Status.Valid() {
		return nil, &models.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", input.Status)}
	}

	show := models.NewShow(userID, title, input.Platform, input.Status, c.now())
	image := c.resolver.Resolve(ctx, title)
	show.ImageURL = &image

	if err := c.store.CreateShow(ctx, show); err != nil {
		return nil, fmt.Errorf("failed to create show: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"show_id":  show.ID,
		"title":    show.Title,
		"platform": show.Platform,
		"status":   show.Status,
	}).Info("Show added")
	return show, nil
}

// UpdateStatus moves an owned show to a new status
func (c *ShowController) UpdateStatus(ctx context.Context, userID, showID uint64, status models.Status) (*models.Show, error) {
	show, err := c.store.GetShow(ctx, showID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load show %d: %w", showID, err)
	}

	previous := show.Status
	if err := show.ApplyStatus(status, c.now()); err != nil {
		return nil, err
	}
	if err := c.store.UpdateShow(ctx, show); err != nil {
		return nil, fmt.Errorf("failed to update show %d: %w", showID, err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"show_id": showID,
		"from":    previous,
		"to":      show.Status,
	}).Info("Show status updated")
	return show, nil
}

// ApplyAction runs a named transition such as rewatch on an owned show
func (c *ShowController) ApplyAction(ctx context.Context, userID, showID uint64, action models.Action) (*models.Show, error) {
	status, err := models.ActionTarget(action)
	if err != nil {
		return nil, err
	}
	return c.UpdateStatus(ctx, userID, showID, status)
}

// Delete removes an owned show. Missing or foreign shows are ignored.
func (c *ShowController) Delete(ctx context.Context, userID, showID uint64) error {
	if err := c.store.DeleteShow(ctx, showID, userID); err != nil {
		return fmt.Errorf("failed to delete show %d: %w", showID, err)
	}
	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"show_id": showID,
	}).Debug("Show delete requested")
	return nil
}

// Stats counts the user's shows by status and platform
func (c *ShowController) Stats(ctx context.Context, userID uint64) (*Stats, error) {
	shows, err := c.store.GetShowsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}

	recent := c.now().AddDate(0, 0, -30)
	stats := &Stats{
		Total:      len(shows),
		ByPlatform: make(map[models.Platform]int),
	}
	for _, show := range shows {
		switch show.Status {
		case models.StatusWatching:
			stats.Watching++
		case models.StatusPlanned:
			stats.Planned++
		case models.StatusCompleted:
			stats.Completed++
			if show.CompletedAt != nil && !show.CompletedAt.Before(recent) {
				stats.CompletedLast30d++
			}
		}
		stats.ByPlatform[show.Platform]++
	}
	return stats, nil
}

func sinceCutoff(since string, now time.Time) (*time.Time, error) {
	var cutoff time.Time
	switch since {
	case "", SinceAll:
		return nil, nil
	case Since30Days:
		cutoff = now.AddDate(0, 0, -30)
	case Since3Months:
		cutoff = now.AddDate(0, -3, 0)
	case SinceLastYear:
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return nil, &models.ValidationError{Field: "since", Reason: fmt.Sprintf("unknown window %q", since)}
	}
	return &cutoff, nil
}
