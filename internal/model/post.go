package model

import (
	"errors"
	"time"
)

// Media kinds shared by posts and stories.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post represents an image or video post.
type Post struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Caption      *string   `db:"caption" json:"caption"`
	MediaURL     string    `db:"media_url" json:"media_url"`
	MediaType    string    `db:"media_type" json:"media_type"`
	LikeCount    int       `db:"like_count" json:"like_count"`
	CommentCount int       `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (not columns of the posts table)
	Author  *UserSummary `json:"author,omitempty"`
	Likes   []int64      `json:"likes"`
	IsLiked bool         `json:"is_liked"`
}

// Post constraints
const (
	MaxPostCaptionLength = 2200
)

// IsValidMediaType reports whether the media kind is one this system accepts.
func IsValidMediaType(mediaType string) bool {
	return mediaType == MediaTypeImage || mediaType == MediaTypeVideo
}

// Post errors
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrNoMediaProvided  = errors.New("no media added")
	ErrCaptionTooLong   = errors.New("caption too long")
	ErrInvalidMediaType = errors.New("media type must be image or video")
)
