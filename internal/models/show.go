package models

import "time"

// User is a watchlist owner. Users are created once and never mutated.
type User struct {
	ID       uint64 `json:"id" boltholdKey:"ID"`
	Username string `json:"username" boltholdIndex:"Username"`
}

// Show is a tracked title owned by exactly one user
type Show struct {
	ID       uint64   `json:"id" boltholdKey:"ID"`
	Title    string   `json:"title"`
	Platform Platform `json:"platform"`
	Status   Status   `json:"status"`
	ImageURL *string  `json:"imageUrl"`
	UserID   uint64   `json:"userId" boltholdIndex:"UserID"`

	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// HasImage reports whether the show carries a non-empty image reference
func (s *Show) HasImage() bool {
	return s.ImageURL != nil && *s.ImageURL != ""
}

// Clone returns a deep copy so stores never hand out shared pointers
func (s *Show) Clone() *Show {
	out := *s
	if s.ImageURL != nil {
		img := *s.ImageURL
		out.ImageURL = &img
	}
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		out.CompletedAt = &at
	}
	return &out
}
