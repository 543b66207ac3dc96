package models

import "context"

// Store is the entity store backing users and shows. Show reads and
// mutations that take a userID are scoped to that owner.
type Store interface {
	GetUser(ctx context.Context, id uint64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// CreateUser inserts the username only if it is not taken yet,
	// returning ErrConflict otherwise
	CreateUser(ctx context.Context, username string) (*User, error)

	GetShowsByUser(ctx context.Context, userID uint64) ([]*Show, error)
	GetShow(ctx context.Context, id, userID uint64) (*Show, error)
	ListShows(ctx context.Context) ([]*Show, error)
	CreateShow(ctx context.Context, show *Show) error
	UpdateShow(ctx context.Context, show *Show) error
	// SetShowImage replaces only the image reference, leaving a concurrent
	// status change intact. Returns ErrNotFound when the show is gone.
	SetShowImage(ctx context.Context, id uint64, imageURL string) error
	// DeleteShow is a no-op when the show is missing or owned by another user
	DeleteShow(ctx context.Context, id, userID uint64) error

	Close() error
}
