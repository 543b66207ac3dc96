package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShowCompletedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	watching := NewShow(1, "Fargo", PlatformHulu, StatusWatching, now)
	assert.Nil(t, watching.CompletedAt)
	assert.Equal(t, now, watching.CreatedAt)

	completed := NewShow(1, "Fargo", PlatformHulu, StatusCompleted, now)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, now, *completed.CompletedAt)
}

func TestApplyStatusCompletedAt(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	show := NewShow(1, "Fargo", PlatformHulu, StatusWatching, created)

	done := created.Add(time.Hour)
	require.NoError(t, show.ApplyStatus(StatusCompleted, done))
	require.NotNil(t, show.CompletedAt)
	assert.False(t, show.CompletedAt.Before(show.CreatedAt))
	assert.Equal(t, done, *show.CompletedAt)

	// planned keeps the previous completion stamp
	require.NoError(t, show.ApplyStatus(StatusPlanned, done.Add(time.Hour)))
	assert.Equal(t, StatusPlanned, show.Status)
	require.NotNil(t, show.CompletedAt)
	assert.Equal(t, done, *show.CompletedAt)

	require.NoError(t, show.ApplyStatus(StatusWatching, done.Add(2*time.Hour)))
	assert.Nil(t, show.CompletedAt)
}

func TestApplyStatusRecompletionRestamps(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	show := NewShow(1, "Fargo", PlatformHulu, StatusCompleted, first)

	later := first.AddDate(0, 1, 0)
	require.NoError(t, show.ApplyStatus(StatusCompleted, later))
	assert.Equal(t, later, *show.CompletedAt)
}

func TestApplyStatusRejectsUnknown(t *testing.T) {
	show := NewShow(1, "Fargo", PlatformHulu, StatusWatching, time.Now())
	err := show.ApplyStatus(Status("dropped"), time.Now())
	assert.True(t, IsValidation(err))
	assert.Equal(t, StatusWatching, show.Status)
}

func TestActionTable(t *testing.T) {
	tests := []struct {
		action Action
		want   Status
	}{
		{ActionComplete, StatusCompleted},
		{ActionStart, StatusWatching},
		{ActionRewatch, StatusPlanned},
	}
	for _, tt := range tests {
		got, err := ActionTarget(tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, string(tt.action))
	}

	_, err := ActionTarget("binge")
	assert.True(t, IsValidation(err))

	assert.Equal(t, []Action{ActionComplete}, ActionsFor(StatusWatching))
	assert.Equal(t, []Action{ActionStart}, ActionsFor(StatusPlanned))
	assert.Equal(t, []Action{ActionRewatch}, ActionsFor(StatusCompleted))
}

func TestEnumsValid(t *testing.T) {
	for _, p := range Platforms {
		assert.True(t, p.Valid())
	}
	assert.False(t, Platform("crunchyroll").Valid())
	for _, s := range Statuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("").Valid())
}
