package models

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeBackends(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"bolt": func() Store {
			db, err := NewDatabase(filepath.Join(t.TempDir(), "showtrack.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			return db
		},
	}
}

func TestStoreCreateUserConflict(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open()

			user, err := store.CreateUser(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, "alice", user.Username)
			assert.NotZero(t, user.ID)

			_, err = store.CreateUser(ctx, "alice")
			assert.ErrorIs(t, err, ErrConflict)

			found, err := store.GetUserByUsername(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, user.ID, found.ID)

			_, err = store.GetUserByUsername(ctx, "bob")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreCreateUserConcurrent(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open()

			var created atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := store.CreateUser(ctx, "race"); err == nil {
						created.Add(1)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), created.Load())
		})
	}
}

func TestStoreShowsAreScopedByUser(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open()
			now := time.Now()

			alice, err := store.CreateUser(ctx, "alice")
			require.NoError(t, err)
			bob, err := store.CreateUser(ctx, "bob")
			require.NoError(t, err)

			aliceShow := NewShow(alice.ID, "Severance", PlatformApple, StatusWatching, now)
			require.NoError(t, store.CreateShow(ctx, aliceShow))
			bobShow := NewShow(bob.ID, "The Bear", PlatformHulu, StatusPlanned, now)
			require.NoError(t, store.CreateShow(ctx, bobShow))
			assert.NotEqual(t, aliceShow.ID, bobShow.ID)

			shows, err := store.GetShowsByUser(ctx, alice.ID)
			require.NoError(t, err)
			require.Len(t, shows, 1)
			assert.Equal(t, "Severance", shows[0].Title)

			_, err = store.GetShow(ctx, bobShow.ID, alice.ID)
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := store.ListShows(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func TestStoreDeleteShowWrongOwnerIsNoop(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open()

			alice, err := store.CreateUser(ctx, "alice")
			require.NoError(t, err)
			bob, err := store.CreateUser(ctx, "bob")
			require.NoError(t, err)

			show := NewShow(alice.ID, "Andor", PlatformDisney, StatusWatching, time.Now())
			require.NoError(t, store.CreateShow(ctx, show))

			require.NoError(t, store.DeleteShow(ctx, show.ID, bob.ID))
			require.NoError(t, store.DeleteShow(ctx, 999, alice.ID))

			shows, err := store.GetShowsByUser(ctx, alice.ID)
			require.NoError(t, err)
			require.Len(t, shows, 1)

			require.NoError(t, store.DeleteShow(ctx, show.ID, alice.ID))
			shows, err = store.GetShowsByUser(ctx, alice.ID)
			require.NoError(t, err)
			assert.Empty(t, shows)
		})
	}
}

func TestStoreIDsAreNeverReused(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open()

			user, err := store.CreateUser(ctx, "alice")
			require.NoError(t, err)

			first := NewShow(user.ID, "Dark", PlatformNetflix, StatusPlanned, time.Now())
			require.NoError(t, store.CreateShow(ctx, first))
			require.NoError(t, store.DeleteShow(ctx, first.ID, user.ID))

			second := NewShow(user.ID, "Dark", PlatformNetflix, StatusPlanned, time.Now())
			require.NoError(t, store.CreateShow(ctx, second))
			assert.Greater(t, second.ID, first.ID)
		})
	}
}

func TestStoreUpdateShow(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open()

			user, err := store.CreateUser(ctx, "alice")
			require.NoError(t, err)

			show := NewShow(user.ID, "Shogun", PlatformHulu, StatusWatching, time.Now())
			require.NoError(t, store.CreateShow(ctx, show))

			require.NoError(t, show.ApplyStatus(StatusCompleted, time.Now()))
			require.NoError(t, store.UpdateShow(ctx, show))

			got, err := store.GetShow(ctx, show.ID, user.ID)
			require.NoError(t, err)
			assert.Equal(t, StatusCompleted, got.Status)
			assert.NotNil(t, got.CompletedAt)

			missing := &Show{ID: 4242, UserID: user.ID, Status: StatusPlanned}
			assert.ErrorIs(t, store.UpdateShow(ctx, missing), ErrNotFound)
		})
	}
}

func TestStoreSetShowImageKeepsStatus(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open()

			user, err := store.CreateUser(ctx, "alice")
			require.NoError(t, err)

			show := NewShow(user.ID, "Shogun", PlatformHulu, StatusWatching, time.Now())
			require.NoError(t, store.CreateShow(ctx, show))

			// status moves on after the refresher read the show
			require.NoError(t, show.ApplyStatus(StatusCompleted, time.Now()))
			require.NoError(t, store.UpdateShow(ctx, show))

			require.NoError(t, store.SetShowImage(ctx, show.ID, "https://img.example/shogun.jpg"))

			got, err := store.GetShow(ctx, show.ID, user.ID)
			require.NoError(t, err)
			assert.Equal(t, StatusCompleted, got.Status)
			assert.NotNil(t, got.CompletedAt)
			require.NotNil(t, got.ImageURL)
			assert.Equal(t, "https://img.example/shogun.jpg", *got.ImageURL)

			assert.ErrorIs(t, store.SetShowImage(ctx, 4242, "https://img.example/x.jpg"), ErrNotFound)
		})
	}
}

func TestStoreCreateShowRequiresUser(t *testing.T) {
	for name, open := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			store := open()
			show := NewShow(77, "Orphan", PlatformOther, StatusPlanned, time.Now())
			assert.ErrorIs(t, store.CreateShow(context.Background(), show), ErrNotFound)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user, err := store.CreateUser(ctx, "alice")
	require.NoError(t, err)
	show := NewShow(user.ID, "Lost", PlatformHulu, StatusWatching, time.Now())
	require.NoError(t, store.CreateShow(ctx, show))

	got, err := store.GetShow(ctx, show.ID, user.ID)
	require.NoError(t, err)
	got.Status = StatusCompleted

	again, err := store.GetShow(ctx, show.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusWatching, again.Status)
}
