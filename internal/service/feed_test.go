package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vybe/internal/model"
)

func feedPost(id, authorID int64, createdAt time.Time) model.Post {
	return model.Post{ID: id, UserID: authorID, MediaURL: "https://cdn.example.com/posts/x.jpg", MediaType: model.MediaTypeImage, CreatedAt: createdAt}
}

// On a cache miss the feed comes from the database (own posts plus followed
// authors) and the cache gets warmed with the same posts.
func TestFeedService_GetFeed_CacheMissWarmsCache(t *testing.T) {
	now := time.Now()
	followRepo := &mockFollowRepository{
		getFolloweeIDsFn: func(ctx context.Context, userID int64) ([]int64, error) {
			return []int64{2, 3}, nil
		},
	}
	var queriedAuthors []int64
	postRepo := &mockPostRepository{
		getByAuthorsFn: func(ctx context.Context, authorIDs []int64, limit int) ([]model.Post, error) {
			queriedAuthors = authorIDs
			return []model.Post{
				feedPost(30, 3, now),
				feedPost(20, 2, now.Add(-time.Minute)),
				feedPost(10, 1, now.Add(-time.Hour)),
			}, nil
		},
	}
	feedCache := &mockFeedCache{} // Exists defaults to false
	svc := NewFeedService(postRepo, followRepo, &mockUserRepository{}, feedCache)

	posts, err := svc.GetFeed(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// The caller's own posts belong in the timeline
	wantAuthors := map[int64]bool{1: true, 2: true, 3: true}
	for _, id := range queriedAuthors {
		if !wantAuthors[id] {
			t.Errorf("unexpected author %d in feed query", id)
		}
	}
	if len(queriedAuthors) != 3 {
		t.Errorf("queried authors = %v, want self plus 2 followees", queriedAuthors)
	}

	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	if posts[0].ID != 30 || posts[1].ID != 20 || posts[2].ID != 10 {
		t.Errorf("posts not newest first: %d, %d, %d", posts[0].ID, posts[1].ID, posts[2].ID)
	}

	if len(feedCache.warmed[1]) != 3 {
		t.Errorf("expected cache warmed with 3 posts, got %d", len(feedCache.warmed[1]))
	}
}

// On a cache hit the post order comes from the cache, not from the batch read.
func TestFeedService_GetFeed_CacheHitPreservesOrder(t *testing.T) {
	feedCache := &mockFeedCache{
		existsFn: func(ctx context.Context, userID int64) (bool, error) { return true, nil },
		getFeedFn: func(ctx context.Context, userID int64, limit int) ([]int64, error) {
			return []int64{30, 20, 10}, nil
		},
	}
	postRepo := &mockPostRepository{
		getByIDsFn: func(ctx context.Context, postIDs []int64) ([]model.Post, error) {
			// Deliberately out of order
			return []model.Post{
				feedPost(10, 1, time.Now()),
				feedPost(30, 3, time.Now()),
				feedPost(20, 2, time.Now()),
			}, nil
		},
		checkLikesFn: func(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{20: true}, nil
		},
	}
	userRepo := &mockUserRepository{
		getSummariesFn: func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
			summaries := make(map[int64]model.UserSummary, len(ids))
			for _, id := range ids {
				summaries[id] = model.UserSummary{ID: id, UserName: "user"}
			}
			return summaries, nil
		},
	}
	svc := NewFeedService(postRepo, &mockFollowRepository{}, userRepo, feedCache)

	posts, err := svc.GetFeed(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	if posts[0].ID != 30 || posts[1].ID != 20 || posts[2].ID != 10 {
		t.Errorf("cache order not preserved: %d, %d, %d", posts[0].ID, posts[1].ID, posts[2].ID)
	}

	for _, p := range posts {
		if p.Author == nil {
			t.Errorf("post %d missing author", p.ID)
		}
		if p.Likes == nil {
			t.Errorf("post %d likes must never be nil", p.ID)
		}
	}
	if !posts[1].IsLiked {
		t.Error("expected post 20 marked as liked by the viewer")
	}
	if posts[0].IsLiked || posts[2].IsLiked {
		t.Error("unliked posts must not be marked liked")
	}
}

// A Redis outage must not take the feed down.
func TestFeedService_GetFeed_CacheErrorFallsBackToDB(t *testing.T) {
	feedCache := &mockFeedCache{
		existsFn: func(ctx context.Context, userID int64) (bool, error) {
			return false, errors.New("connection refused")
		},
	}
	postRepo := &mockPostRepository{
		getByAuthorsFn: func(ctx context.Context, authorIDs []int64, limit int) ([]model.Post, error) {
			return []model.Post{feedPost(10, 1, time.Now())}, nil
		},
	}
	svc := NewFeedService(postRepo, &mockFollowRepository{}, &mockUserRepository{}, feedCache)

	posts, err := svc.GetFeed(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected fallback to succeed, got: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != 10 {
		t.Errorf("posts = %+v, want the DB post", posts)
	}
}

func TestFeedService_GetFeed_EmptyFeed(t *testing.T) {
	feedCache := &mockFeedCache{
		existsFn: func(ctx context.Context, userID int64) (bool, error) { return true, nil },
	}
	svc := NewFeedService(&mockPostRepository{}, &mockFollowRepository{}, &mockUserRepository{}, feedCache)

	posts, err := svc.GetFeed(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if posts == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(posts) != 0 {
		t.Errorf("expected no posts, got %d", len(posts))
	}
}
