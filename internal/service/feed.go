package service

import (
	"context"
	"log"

	"vybe/internal/cache"
	"vybe/internal/model"
	"vybe/internal/repository"
)

// FeedService serves each user's timeline: the caller's own posts plus the
// posts of everyone they follow, newest first. The hot path reads post IDs
// from the Redis sorted-set cache; on a miss the cache is warmed from the
// database, and on a cache failure we degrade to a direct database read.
type FeedService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	feedCache  cache.FeedCache
}

func NewFeedService(
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	feedCache cache.FeedCache,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
		feedCache:  feedCache,
	}
}

// GetFeed returns the user's timeline, enriched with author summaries, liker
// sets and the caller's like status.
func (s *FeedService) GetFeed(ctx context.Context, userID int64) ([]model.Post, error) {
	posts, err := s.feedFromCache(ctx, userID)
	if err != nil {
		log.Printf("[FeedService] Cache path failed, falling back to DB: user=%d err=%v", userID, err)
		posts, err = s.feedFromDB(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.hydrate(ctx, posts, userID); err != nil {
		return nil, err
	}

	return posts, nil
}

// feedFromCache reads post IDs from the sorted-set cache, warming it from
// the database first if the user has no entry yet.
func (s *FeedService) feedFromCache(ctx context.Context, userID int64) ([]model.Post, error) {
	exists, err := s.feedCache.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !exists {
		posts, err := s.feedFromDB(ctx, userID)
		if err != nil {
			return nil, err
		}

		scores := make([]cache.PostScore, len(posts))
		for i, p := range posts {
			scores[i] = cache.PostScore{PostID: p.ID, Timestamp: p.CreatedAt.Unix()}
		}
		if err := s.feedCache.WarmCache(ctx, userID, scores); err != nil {
			log.Printf("[FeedService] WarmCache failed: user=%d err=%v", userID, err)
		}

		return posts, nil
	}

	postIDs, err := s.feedCache.GetFeed(ctx, userID, cache.FeedCacheCap)
	if err != nil {
		return nil, err
	}
	if len(postIDs) == 0 {
		return []model.Post{}, nil
	}

	posts, err := s.postRepo.GetByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	// Preserve the cache's newest-first order; the batch read doesn't
	byID := make(map[int64]model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]model.Post, 0, len(posts))
	for _, id := range postIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}

// feedFromDB queries the timeline straight from Postgres.
func (s *FeedService) feedFromDB(ctx context.Context, userID int64) ([]model.Post, error) {
	followees, err := s.followRepo.GetFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	authorIDs := append(followees, userID)
	posts, err := s.postRepo.GetByAuthors(ctx, authorIDs, cache.FeedCacheCap)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}

	return posts, nil
}

// hydrate attaches author summaries, liker ID sets and the viewer's like
// status to the posts, using batch lookups.
func (s *FeedService) hydrate(ctx context.Context, posts []model.Post, viewerID int64) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]int64, len(posts))
	authorSet := make(map[int64]struct{})
	for i, p := range posts {
		postIDs[i] = p.ID
		authorSet[p.UserID] = struct{}{}
	}
	authorIDs := make([]int64, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}

	authors, err := s.userRepo.GetSummaries(ctx, authorIDs)
	if err != nil {
		return err
	}
	likers, err := s.postRepo.GetLikerIDs(ctx, postIDs)
	if err != nil {
		return err
	}
	liked, err := s.postRepo.CheckLikes(ctx, viewerID, postIDs)
	if err != nil {
		return err
	}

	for i := range posts {
		p := &posts[i]
		if author, ok := authors[p.UserID]; ok {
			p.Author = &author
		}
		p.Likes = likers[p.ID]
		if p.Likes == nil {
			p.Likes = []int64{}
		}
		p.IsLiked = liked[p.ID]
	}

	return nil
}
