package worker

import (
	"context"
	"fmt"
	"log"

	"vybe/internal/cache"
	"vybe/internal/queue"
)

// FollowerProvider abstracts the repository layer so workers don't depend on
// the database package directly.
type FollowerProvider interface {
	// GetFollowerIDs returns all follower IDs for a given user.
	GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error)
}

// RecentPostsProvider is used for backfilling a feed when a user follows someone.
type RecentPostsProvider interface {
	// GetRecentByUser returns a user's recent posts as (postID, timestamp) pairs.
	GetRecentByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error)
}

// Handler processes feed events from the queue.
type Handler struct {
	feedCache        cache.FeedCache
	followerProvider FollowerProvider
	postsProvider    RecentPostsProvider
}

// NewHandler creates a new event handler.
func NewHandler(feedCache cache.FeedCache, followerProvider FollowerProvider, postsProvider RecentPostsProvider) *Handler {
	return &Handler{
		feedCache:        feedCache,
		followerProvider: followerProvider,
		postsProvider:    postsProvider,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.FeedEvent) error {
	switch event.Type {
	case queue.EventPostCreated:
		return h.handlePostCreated(ctx, event)
	case queue.EventPostDeleted:
		return h.handlePostDeleted(ctx, event)
	case queue.EventUserFollowed:
		return h.handleUserFollowed(ctx, event)
	case queue.EventUserUnfollowed:
		return h.handleUserUnfollowed(ctx, event)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

// handlePostCreated fans out a new post to all followers' feed caches.
func (h *Handler) handlePostCreated(ctx context.Context, event queue.FeedEvent) error {
	followers, err := h.followerProvider.GetFollowerIDs(ctx, event.AuthorID)
	if err != nil {
		return fmt.Errorf("get followers: %w", err)
	}

	var failCount int
	for _, followerID := range followers {
		if err := h.feedCache.AddPost(ctx, followerID, event.PostID, event.Timestamp); err != nil {
			log.Printf("[Worker] PostCreated: failed to add to user=%d err=%v", followerID, err)
			failCount++
			// Keep going, one follower's cache failure shouldn't sink the fan-out
		}
	}

	// Authors see their own posts in their feed
	if err := h.feedCache.AddPost(ctx, event.AuthorID, event.PostID, event.Timestamp); err != nil {
		log.Printf("[Worker] PostCreated: failed to add to author's own feed err=%v", err)
	}

	log.Printf("[Worker] PostCreated DONE: post=%d fanout=%d failed=%d",
		event.PostID, len(followers)+1, failCount)
	return nil
}

// handlePostDeleted removes a post from all followers' feed caches.
func (h *Handler) handlePostDeleted(ctx context.Context, event queue.FeedEvent) error {
	followers, err := h.followerProvider.GetFollowerIDs(ctx, event.AuthorID)
	if err != nil {
		return fmt.Errorf("get followers: %w", err)
	}

	for _, followerID := range followers {
		if err := h.feedCache.RemovePost(ctx, followerID, event.PostID); err != nil {
			log.Printf("[Worker] PostDeleted: failed to remove from user=%d err=%v", followerID, err)
		}
	}

	if err := h.feedCache.RemovePost(ctx, event.AuthorID, event.PostID); err != nil {
		log.Printf("[Worker] PostDeleted: failed to remove from author's own feed err=%v", err)
	}

	return nil
}

// handleUserFollowed backfills the follower's feed with the followee's recent posts.
func (h *Handler) handleUserFollowed(ctx context.Context, event queue.FeedEvent) error {
	const backfillLimit = 20

	posts, err := h.postsProvider.GetRecentByUser(ctx, event.FolloweeID, backfillLimit)
	if err != nil {
		return fmt.Errorf("get recent posts: %w", err)
	}

	var failCount int
	for _, p := range posts {
		if err := h.feedCache.AddPost(ctx, event.FollowerID, p.PostID, p.Timestamp); err != nil {
			log.Printf("[Worker] UserFollowed: failed to add post=%d err=%v", p.PostID, err)
			failCount++
		}
	}

	log.Printf("[Worker] UserFollowed DONE: follower=%d backfilled=%d failed=%d",
		event.FollowerID, len(posts), failCount)
	return nil
}

// handleUserUnfollowed removes the followee's posts from the follower's feed.
func (h *Handler) handleUserUnfollowed(ctx context.Context, event queue.FeedEvent) error {
	const removeLimit = 100

	posts, err := h.postsProvider.GetRecentByUser(ctx, event.FolloweeID, removeLimit)
	if err != nil {
		return fmt.Errorf("get posts to remove: %w", err)
	}

	for _, p := range posts {
		if err := h.feedCache.RemovePost(ctx, event.FollowerID, p.PostID); err != nil {
			log.Printf("[Worker] UserUnfollowed: failed to remove post=%d err=%v", p.PostID, err)
		}
	}

	return nil
}
