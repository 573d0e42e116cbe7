package service

import (
	"context"
	"strings"

	"vybe/internal/model"
	"vybe/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo    repository.PostRepository,
	userRepo    repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// Add creates a comment on the post and returns it with the author attached.
func (s *CommentService) Add(ctx context.Context, userID, postID int64, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comment, err := s.commentRepo.Create(ctx, postID, userID, content)
	if err != nil {
		return nil, err
	}

	if authors, err := s.userRepo.GetSummaries(ctx, []int64{userID}); err == nil {
		if author, ok := authors[userID]; ok {
			comment.Author = &author
		}
	}

	return comment, nil
}

// List returns the post's comments, newest first. Authors come joined from
// the repository.
func (s *CommentService) List(ctx context.Context, postID int64) ([]model.Comment, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comments, err := s.commentRepo.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}

	return comments, nil
}

// Delete removes the caller's own comment. Deleting another user's comment
// fails with ErrNotCommentOwner.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	return s.commentRepo.Delete(ctx, commentID, userID)
}
