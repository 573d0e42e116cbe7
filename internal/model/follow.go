package model

import (
	"errors"
	"time"
)

type Follow struct {
	FollowerID int64     `db:"follower_id" json:"follower_id"`
	FolloweeID int64     `db:"followee_id" json:"followee_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FollowCounts is returned after a successful follow/unfollow: the actor's
// updated following count and the target's updated follower count.
type FollowCounts struct {
	Following int `json:"following"`
	Followers int `json:"followers_count"`
}

type FollowStatusResponse struct {
	IsFollowing bool `json:"is_following"`
}

var (
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("you are not following this user")
	ErrCannotFollowSelf = errors.New("you cannot follow yourself")
)
