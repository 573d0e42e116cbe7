package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"vybe/internal/cache"
	"vybe/internal/queue"
)

// recordingFeedCache tracks every cache mutation so tests can assert on the
// fan-out targets.
type recordingFeedCache struct {
	added    map[int64][]int64 // userID -> postIDs
	removed  map[int64][]int64
	addErrFn func(userID int64) error
}

func newRecordingFeedCache() *recordingFeedCache {
	return &recordingFeedCache{
		added:   make(map[int64][]int64),
		removed: make(map[int64][]int64),
	}
}

func (c *recordingFeedCache) AddPost(ctx context.Context, userID, postID int64, timestamp int64) error {
	if c.addErrFn != nil {
		if err := c.addErrFn(userID); err != nil {
			return err
		}
	}
	c.added[userID] = append(c.added[userID], postID)
	return nil
}

func (c *recordingFeedCache) RemovePost(ctx context.Context, userID, postID int64) error {
	c.removed[userID] = append(c.removed[userID], postID)
	return nil
}

func (c *recordingFeedCache) GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error) {
	return nil, nil
}

func (c *recordingFeedCache) WarmCache(ctx context.Context, userID int64, posts []cache.PostScore) error {
	return nil
}

func (c *recordingFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	return false, nil
}

type stubFollowers struct {
	followers []int64
	err       error
}

func (s *stubFollowers) GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.followers, s.err
}

type stubRecentPosts struct {
	posts []cache.PostScore
}

func (s *stubRecentPosts) GetRecentByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error) {
	if limit < len(s.posts) {
		return s.posts[:limit], nil
	}
	return s.posts, nil
}

func TestHandler_PostCreated_FansOutToFollowersAndAuthor(t *testing.T) {
	feedCache := newRecordingFeedCache()
	handler := NewHandler(feedCache, &stubFollowers{followers: []int64{2, 3}}, &stubRecentPosts{})

	event := queue.FeedEvent{Type: queue.EventPostCreated, PostID: 10, AuthorID: 1, Timestamp: time.Now().Unix()}
	if err := handler.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for _, userID := range []int64{1, 2, 3} {
		posts := feedCache.added[userID]
		if len(posts) != 1 || posts[0] != 10 {
			t.Errorf("user %d feed = %v, want [10]", userID, posts)
		}
	}
}

// One follower's cache failure must not sink the rest of the fan-out.
func TestHandler_PostCreated_PartialFailureContinues(t *testing.T) {
	feedCache := newRecordingFeedCache()
	feedCache.addErrFn = func(userID int64) error {
		if userID == 2 {
			return errors.New("cache write failed")
		}
		return nil
	}
	handler := NewHandler(feedCache, &stubFollowers{followers: []int64{2, 3}}, &stubRecentPosts{})

	event := queue.FeedEvent{Type: queue.EventPostCreated, PostID: 10, AuthorID: 1, Timestamp: time.Now().Unix()}
	if err := handler.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(feedCache.added[3]) != 1 {
		t.Error("remaining followers must still get the post")
	}
	if len(feedCache.added[1]) != 1 {
		t.Error("author must still get the post")
	}
}

func TestHandler_PostDeleted_RemovesEverywhere(t *testing.T) {
	feedCache := newRecordingFeedCache()
	handler := NewHandler(feedCache, &stubFollowers{followers: []int64{2}}, &stubRecentPosts{})

	event := queue.FeedEvent{Type: queue.EventPostDeleted, PostID: 10, AuthorID: 1, Timestamp: time.Now().Unix()}
	if err := handler.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for _, userID := range []int64{1, 2} {
		removed := feedCache.removed[userID]
		if len(removed) != 1 || removed[0] != 10 {
			t.Errorf("user %d removals = %v, want [10]", userID, removed)
		}
	}
}

func TestHandler_UserFollowed_BackfillsRecentPosts(t *testing.T) {
	feedCache := newRecordingFeedCache()
	now := time.Now().Unix()
	recent := &stubRecentPosts{posts: []cache.PostScore{
		{PostID: 30, Timestamp: now},
		{PostID: 20, Timestamp: now - 60},
	}}
	handler := NewHandler(feedCache, &stubFollowers{}, recent)

	event := queue.FeedEvent{Type: queue.EventUserFollowed, FollowerID: 1, FolloweeID: 2, Timestamp: now}
	if err := handler.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	added := feedCache.added[1]
	if len(added) != 2 || added[0] != 30 || added[1] != 20 {
		t.Errorf("backfilled posts = %v, want [30, 20]", added)
	}
}

func TestHandler_UserUnfollowed_RemovesFolloweePosts(t *testing.T) {
	feedCache := newRecordingFeedCache()
	recent := &stubRecentPosts{posts: []cache.PostScore{{PostID: 30, Timestamp: time.Now().Unix()}}}
	handler := NewHandler(feedCache, &stubFollowers{}, recent)

	event := queue.FeedEvent{Type: queue.EventUserUnfollowed, FollowerID: 1, FolloweeID: 2, Timestamp: time.Now().Unix()}
	if err := handler.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	removed := feedCache.removed[1]
	if len(removed) != 1 || removed[0] != 30 {
		t.Errorf("removed posts = %v, want [30]", removed)
	}
}

func TestHandler_UnknownEventType(t *testing.T) {
	handler := NewHandler(newRecordingFeedCache(), &stubFollowers{}, &stubRecentPosts{})

	event := queue.FeedEvent{Type: "bogus"}
	if err := handler.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}
