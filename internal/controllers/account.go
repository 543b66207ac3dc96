package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/amaumene/showtrack/internal/models"
	"github.com/sirupsen/logrus"
)

// AccountController handles username-only registration and login
type AccountController struct {
	store  models.Store
	logger *logrus.Logger
}

// NewAccountController creates a new account controller
func NewAccountController(store models.Store, logger *logrus.Logger) *AccountController {
	return &AccountController{
		store:  store,
		logger: logger,
	}
}

// CheckUser looks a username up. A nil user with a nil error means the
// name is free.
func (c *AccountController) CheckUser(ctx context.Context, username string) (*models.User, error) {
	username, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}

	user, err := c.store.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// CreateUser registers a new username, returning models.ErrConflict when taken
func (c *AccountController) CreateUser(ctx context.Context, username string) (*models.User, error) {
	username, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}

	user, err := c.store.CreateUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", username, err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User created")
	return user, nil
}

// Login returns the existing user for username, or models.ErrNotFound
func (c *AccountController) Login(ctx context.Context, username string) (*models.User, error) {
	username, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}

	user, err := c.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to log in %q: %w", username, err)
	}

	c.logger.WithField("user_id", user.ID).Debug("User logged in")
	return user, nil
}

// CurrentUser resolves the user bound to a session
func (c *AccountController) CurrentUser(ctx context.Context, userID uint64) (*models.User, error) {
	user, err := c.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return user, nil
}
