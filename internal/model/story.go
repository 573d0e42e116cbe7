package model

import (
	"errors"
	"time"
)

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// Story represents an ephemeral story. Stories never carry captions, likes
// or comments; the only state that accrues is the viewer set.
type Story struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	MediaURL  string    `db:"media_url" json:"media_url"`
	MediaType string    `db:"media_type" json:"media_type"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined fields
	Author  *UserSummary  `json:"author,omitempty"`
	Viewers []UserSummary `json:"viewers"`
}

// Expired reports whether the story is past its TTL at the given instant.
func (s *Story) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// StoryGroup is one author's active stories, as returned by the stories bar.
type StoryGroup struct {
	Author  UserSummary `json:"author"`
	Stories []Story     `json:"stories"`
}

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrStoryExpired  = errors.New("story has expired")
)
