package models

import (
	"fmt"
	"time"
)

// Action is a named, user-facing status transition
type Action string

const (
	ActionComplete Action = "complete" // watching -> completed
	ActionStart    Action = "start"    // planned -> watching
	ActionRewatch  Action = "rewatch"  // completed -> planned
)

// actionTable maps each action to the state it applies from and the state it leads to
var actionTable = map[Action]struct {
	From Status
	To   Status
}{
	ActionComplete: {From: StatusWatching, To: StatusCompleted},
	ActionStart:    {From: StatusPlanned, To: StatusWatching},
	ActionRewatch:  {From: StatusCompleted, To: StatusPlanned},
}

// ActionTarget returns the status a named action moves a show to
func ActionTarget(action Action) (Status, error) {
	entry, ok := actionTable[action]
	if !ok {
		return "", &ValidationError{Field: "action", Reason: fmt.Sprintf("unknown action %q", action)}
	}
	return entry.To, nil
}

// ActionsFor returns the named actions offered for a show in the given status
func ActionsFor(status Status) []Action {
	var actions []Action
	for _, action := range []Action{ActionComplete, ActionStart, ActionRewatch} {
		if actionTable[action].From == status {
			actions = append(actions, action)
		}
	}
	return actions
}

// NewShow builds a show in its caller-supplied initial status.
// A show created as completed is stamped with its creation time.
func NewShow(userID uint64, title string, platform Platform, status Status, now time.Time) *Show {
	show := &Show{
		Title:     title,
		Platform:  platform,
		Status:    status,
		UserID:    userID,
		CreatedAt: now,
	}
	if status == StatusCompleted {
		at := now
		show.CompletedAt = &at
	}
	return show
}

// ApplyStatus moves the show to status and derives CompletedAt:
// completed stamps now, watching clears it, planned keeps whatever was there.
func (s *Show) ApplyStatus(status Status, now time.Time) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	switch status {
	case StatusCompleted:
		at := now
		s.CompletedAt = &at
	case StatusWatching:
		s.CompletedAt = nil
	}
	s.Status = status
	return nil
}
