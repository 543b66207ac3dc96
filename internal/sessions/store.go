package sessions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNoSession is returned when a session id is unknown or expired
var ErrNoSession = errors.New("session not found")

// Store keeps server-side sessions. A session holds only the user id.
type Store interface {
	Create(ctx context.Context, userID uint64) (string, error)
	Get(ctx context.Context, id string) (uint64, error)
	Destroy(ctx context.Context, id string) error
}

// newID returns an opaque, unguessable session id
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
