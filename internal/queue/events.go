package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the feed stream
const (
	EventPostCreated    = "post_created"
	EventPostDeleted    = "post_deleted"
	EventUserFollowed   = "user_followed"
	EventUserUnfollowed = "user_unfollowed"
)

// Stream names
const (
	StreamFeed = "stream:feed"
)

// Consumer group name for feed workers
const (
	ConsumerGroupFeed = "feed_workers"
)

// FeedEvent represents an event published to the feed stream.
// All feed-related events share this structure.
type FeedEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when the event occurred

	// Post events
	PostID   int64 `json:"post_id,omitempty"`
	AuthorID int64 `json:"author_id,omitempty"`

	// Follow events
	FollowerID int64 `json:"follower_id,omitempty"`
	FolloweeID int64 `json:"followee_id,omitempty"`
}

// NewPostCreatedEvent creates the event published when a user creates a post.
// Workers fan the post out to all followers' feed caches.
func NewPostCreatedEvent(postID, authorID int64) FeedEvent {
	return FeedEvent{
		Type:      EventPostCreated,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		AuthorID:  authorID,
	}
}

// NewPostDeletedEvent creates the event published when a post is removed.
func NewPostDeletedEvent(postID, authorID int64) FeedEvent {
	return FeedEvent{
		Type:      EventPostDeleted,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		AuthorID:  authorID,
	}
}

// NewUserFollowedEvent creates the event published after a follow commits.
// Workers backfill the follower's feed with the followee's recent posts.
func NewUserFollowedEvent(followerID, followeeID int64) FeedEvent {
	return FeedEvent{
		Type:       EventUserFollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
}

// NewUserUnfollowedEvent creates the event published after an unfollow commits.
// Workers remove the followee's posts from the follower's feed.
func NewUserUnfollowedEvent(followerID, followeeID int64) FeedEvent {
	return FeedEvent{
		Type:       EventUserUnfollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
}

// ToMap serializes the event into the flat field map Redis streams expect.
func (e FeedEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{"payload": string(data)}, nil
}

// ParseFeedEvent parses a stream message's field map back into a FeedEvent.
func ParseFeedEvent(values map[string]interface{}) (FeedEvent, error) {
	var event FeedEvent

	payload, ok := values["payload"].(string)
	if !ok {
		return event, fmt.Errorf("missing payload field")
	}

	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return event, fmt.Errorf("unmarshal event: %w", err)
	}

	return event, nil
}
