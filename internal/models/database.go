package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database is a Store backed by a bolthold file
type Database struct {
	store *bolthold.Store
}

var _ Store = (*Database)(nil)

// NewDatabase opens (or creates) the bolthold file at path
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// User operations

// GetUser retrieves a user by ID
func (db *Database) GetUser(ctx context.Context, id uint64) (*User, error) {
	var user User
	if err := db.store.Get(id, &user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by exact username
func (db *Database) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var users []*User
	if err := db.store.Find(&users, bolthold.Where("Username").Eq(username).Index("Username")); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}

// CreateUser checks and inserts inside one bolt write transaction, which
// bolt serializes, so two callers cannot both claim a username
func (db *Database) CreateUser(ctx context.Context, username string) (*User, error) {
	user := &User{Username: username}

	err := db.store.Bolt().Update(func(tx *bbolt.Tx) error {
		var existing []*User
		if err := db.store.TxFind(tx, &existing, bolthold.Where("Username").Eq(username).Index("Username")); err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrConflict
		}
		return db.store.TxInsert(tx, bolthold.NextSequence(), user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Show operations

// GetShowsByUser retrieves all shows owned by userID
func (db *Database) GetShowsByUser(ctx context.Context, userID uint64) ([]*Show, error) {
	shows := make([]*Show, 0)
	if err := db.store.Find(&shows, bolthold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, err
	}
	sortShows(shows)
	return shows, nil
}

// GetShow retrieves a show owned by userID
func (db *Database) GetShow(ctx context.Context, id, userID uint64) (*Show, error) {
	var show Show
	if err := db.store.Get(id, &show); err != nil {
		return nil, translate(err)
	}
	if show.UserID != userID {
		return nil, ErrNotFound
	}
	return &show, nil
}

// ListShows retrieves every show
func (db *Database) ListShows(ctx context.Context) ([]*Show, error) {
	shows := make([]*Show, 0)
	if err := db.store.Find(&shows, nil); err != nil {
		return nil, err
	}
	sortShows(shows)
	return shows, nil
}

// CreateShow creates a new show for an existing user
func (db *Database) CreateShow(ctx context.Context, show *Show) error {
	if _, err := db.GetUser(ctx, show.UserID); err != nil {
		return err
	}
	return db.store.Insert(bolthold.NextSequence(), show)
}

// UpdateShow updates an existing show
func (db *Database) UpdateShow(ctx context.Context, show *Show) error {
	return translate(db.store.Update(show.ID, show))
}

// SetShowImage rewrites the image reference inside one write transaction
func (db *Database) SetShowImage(ctx context.Context, id uint64, imageURL string) error {
	return db.store.Bolt().Update(func(tx *bbolt.Tx) error {
		var show Show
		if err := db.store.TxGet(tx, id, &show); err != nil {
			return translate(err)
		}
		show.ImageURL = &imageURL
		return db.store.TxUpdate(tx, id, &show)
	})
}

// DeleteShow deletes the show when userID owns it
func (db *Database) DeleteShow(ctx context.Context, id, userID uint64) error {
	show, err := db.GetShow(ctx, id, userID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return db.store.Delete(show.ID, &Show{})
}

func translate(err error) error {
	if errors.Is(err, bolthold.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
