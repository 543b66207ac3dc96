package models

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps users and shows in process memory. All data is lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[uint64]*User
	byUsername map[string]uint64
	shows      map[uint64]*Show
	nextUserID uint64
	nextShowID uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint64]*User),
		byUsername: make(map[string]uint64),
		shows:      make(map[uint64]*Show),
		nextUserID: 1,
		nextShowID: 1,
	}
}

// Close is a no-op for the in-memory store
func (m *MemoryStore) Close() error {
	return nil
}

// GetUser retrieves a user by ID
func (m *MemoryStore) GetUser(ctx context.Context, id uint64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

// GetUserByUsername retrieves a user by exact username
func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	out := *m.users[id]
	return &out, nil
}

// CreateUser inserts a new user under the write lock so the existence
// check and the insert cannot interleave with another caller
func (m *MemoryStore) CreateUser(ctx context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byUsername[username]; taken {
		return nil, ErrConflict
	}

	user := &User{ID: m.nextUserID, Username: username}
	m.nextUserID++
	m.users[user.ID] = user
	m.byUsername[username] = user.ID

	out := *user
	return &out, nil
}

// GetShowsByUser returns the user's shows in creation order
func (m *MemoryStore) GetShowsByUser(ctx context.Context, userID uint64) ([]*Show, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shows := make([]*Show, 0)
	for _, show := range m.shows {
		if show.UserID == userID {
			shows = append(shows, show.Clone())
		}
	}
	sortShows(shows)
	return shows, nil
}

// GetShow retrieves a show owned by userID
func (m *MemoryStore) GetShow(ctx context.Context, id, userID uint64) (*Show, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	show, ok := m.shows[id]
	if !ok || show.UserID != userID {
		return nil, ErrNotFound
	}
	return show.Clone(), nil
}

// ListShows returns every show across all users
func (m *MemoryStore) ListShows(ctx context.Context) ([]*Show, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shows := make([]*Show, 0, len(m.shows))
	for _, show := range m.shows {
		shows = append(shows, show.Clone())
	}
	sortShows(shows)
	return shows, nil
}

// CreateShow stores a new show and assigns its ID
func (m *MemoryStore) CreateShow(ctx context.Context, show *Show) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[show.UserID]; !ok {
		return ErrNotFound
	}

	show.ID = m.nextShowID
	m.nextShowID++
	m.shows[show.ID] = show.Clone()
	return nil
}

// UpdateShow replaces an existing show
func (m *MemoryStore) UpdateShow(ctx context.Context, show *Show) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shows[show.ID]; !ok {
		return ErrNotFound
	}
	m.shows[show.ID] = show.Clone()
	return nil
}

// SetShowImage replaces the image reference of an existing show
func (m *MemoryStore) SetShowImage(ctx context.Context, id uint64, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	show, ok := m.shows[id]
	if !ok {
		return ErrNotFound
	}
	show.ImageURL = &imageURL
	return nil
}

// DeleteShow removes the show if userID owns it
func (m *MemoryStore) DeleteShow(ctx context.Context, id, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if show, ok := m.shows[id]; ok && show.UserID == userID {
		delete(m.shows, id)
	}
	return nil
}

func sortShows(shows []*Show) {
	sort.Slice(shows, func(i, j int) bool {
		return shows[i].ID < shows[j].ID
	})
}
