package service

import (
	"context"
	"log"

	"vybe/internal/model"
	"vybe/internal/queue"
	"vybe/internal/repository"
)

// PostService creates posts. Reads go through FeedService, which serves the
// cached timeline.
type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	publisher queue.Publisher
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, publisher queue.Publisher) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Create persists a new post and publishes it for feed fan-out. The media
// must already be uploaded; posts without media are rejected.
func (s *PostService) Create(ctx context.Context, userID int64, caption string, media *model.UploadResult, mediaType string) (*model.Post, error) {
	if media == nil || media.URL == "" {
		return nil, model.ErrNoMediaProvided
	}
	if !model.IsValidMediaType(mediaType) {
		return nil, model.ErrInvalidMediaType
	}
	if len(caption) > model.MaxPostCaptionLength {
		return nil, model.ErrCaptionTooLong
	}

	post := &model.Post{
		UserID:    userID,
		MediaURL:  media.URL,
		MediaType: mediaType,
		Likes:     []int64{},
	}
	if caption != "" {
		post.Caption = &caption
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Fan-out happens asynchronously; a publish failure degrades the feed
	// cache but never fails the upload
	if s.publisher != nil {
		event := queue.NewPostCreatedEvent(post.ID, userID)
		if _, err := s.publisher.Publish(ctx, queue.StreamFeed, event); err != nil {
			log.Printf("[PostService] Failed to publish PostCreated: post=%d author=%d err=%v",
				post.ID, userID, err)
		}
	}

	if authors, err := s.userRepo.GetSummaries(ctx, []int64{userID}); err == nil {
		if author, ok := authors[userID]; ok {
			post.Author = &author
		}
	}

	return post, nil
}
