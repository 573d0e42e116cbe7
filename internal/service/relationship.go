package service

import (
	"context"
	"log"
	"time"

	"vybe/internal/model"
	"vybe/internal/queue"
	"vybe/internal/repository"
)

// RelationshipService owns the membership changes between users and the
// things they act on: follow edges, post likes and story views. The three
// operations carry deliberately different idempotency policies:
//
//   - follow/unfollow reject redundant calls, so a retried request can't
//     double-count
//   - like is an unconditional toggle ("tap to like, tap again to unlike")
//   - story view is monotonic: insert if absent, never remove
type RelationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	storyRepo  repository.StoryRepository
	publisher  queue.Publisher
}

func NewRelationshipService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	storyRepo repository.StoryRepository,
	publisher queue.Publisher,
) *RelationshipService {
	return &RelationshipService{
		followRepo: followRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
		storyRepo:  storyRepo,
		publisher:  publisher,
	}
}

// Follow creates the follow edge from actor to target. Redundant calls fail
// with ErrAlreadyFollowing. Returns both users' updated counts.
func (s *RelationshipService) Follow(ctx context.Context, actorID, targetID int64) (*model.FollowCounts, error) {
	if actorID == targetID {
		return nil, model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	inserted, counts, err := s.followRepo.Follow(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, model.ErrAlreadyFollowing
	}

	// Publish after commit so workers never see an edge that rolled back
	if s.publisher != nil {
		event := queue.NewUserFollowedEvent(actorID, targetID)
		if _, err := s.publisher.Publish(ctx, queue.StreamFeed, event); err != nil {
			log.Printf("[RelationshipService] Failed to publish UserFollowed: follower=%d followee=%d err=%v",
				actorID, targetID, err)
		}
	}

	return counts, nil
}

// Unfollow removes the follow edge. Fails with ErrNotFollowing when no edge
// exists. Returns both users' updated counts.
func (s *RelationshipService) Unfollow(ctx context.Context, actorID, targetID int64) (*model.FollowCounts, error) {
	if actorID == targetID {
		return nil, model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	removed, counts, err := s.followRepo.Unfollow(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, model.ErrNotFollowing
	}

	if s.publisher != nil {
		event := queue.NewUserUnfollowedEvent(actorID, targetID)
		if _, err := s.publisher.Publish(ctx, queue.StreamFeed, event); err != nil {
			log.Printf("[RelationshipService] Failed to publish UserUnfollowed: follower=%d followee=%d err=%v",
				actorID, targetID, err)
		}
	}

	return counts, nil
}

// Status reports whether actor currently follows target.
func (s *RelationshipService) Status(ctx context.Context, actorID, targetID int64) (bool, error) {
	return s.followRepo.Exists(ctx, actorID, targetID)
}

// ToggleLike likes the post if the actor hasn't liked it, unlikes it
// otherwise. Repeat calls never error; two calls restore the original state.
// Returns the updated post with its liker set.
func (s *RelationshipService) ToggleLike(ctx context.Context, actorID, postID int64) (*model.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	inserted, err := s.postRepo.Like(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Already liked: this call is an unlike
		if _, err := s.postRepo.Unlike(ctx, postID, actorID); err != nil {
			return nil, err
		}
	}

	return s.hydratePost(ctx, postID, actorID)
}

// MarkStoryViewed records that actor has seen the story. Views are
// monotonic: repeat calls are no-ops, a story never becomes unviewed.
// Fails with ErrStoryExpired once the story is past its TTL.
func (s *RelationshipService) MarkStoryViewed(ctx context.Context, actorID, storyID int64) (*model.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if story.Expired(time.Now()) {
		return nil, model.ErrStoryExpired
	}

	if err := s.storyRepo.AddViewer(ctx, storyID, actorID); err != nil {
		return nil, err
	}

	return s.hydrateStory(ctx, story)
}

// hydratePost re-reads the post and attaches author, liker set and the
// actor's like status.
func (s *RelationshipService) hydratePost(ctx context.Context, postID, viewerID int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	likers, err := s.postRepo.GetLikerIDs(ctx, []int64{postID})
	if err != nil {
		return nil, err
	}
	post.Likes = likers[postID]
	if post.Likes == nil {
		post.Likes = []int64{}
	}
	for _, id := range post.Likes {
		if id == viewerID {
			post.IsLiked = true
			break
		}
	}

	authors, err := s.userRepo.GetSummaries(ctx, []int64{post.UserID})
	if err == nil {
		if author, ok := authors[post.UserID]; ok {
			post.Author = &author
		}
	}

	return post, nil
}

// hydrateStory attaches the author summary and the current viewer list.
func (s *RelationshipService) hydrateStory(ctx context.Context, story *model.Story) (*model.Story, error) {
	viewers, err := s.storyRepo.GetViewers(ctx, []int64{story.ID})
	if err != nil {
		return nil, err
	}
	story.Viewers = viewers[story.ID]
	if story.Viewers == nil {
		story.Viewers = []model.UserSummary{}
	}

	authors, err := s.userRepo.GetSummaries(ctx, []int64{story.UserID})
	if err == nil {
		if author, ok := authors[story.UserID]; ok {
			story.Author = &author
		}
	}

	return story, nil
}
