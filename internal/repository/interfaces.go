package repository

import (
	"context"

	"vybe/internal/cache"
	"vybe/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUserName(ctx context.Context, userName string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUserName(ctx context.Context, userName string) (bool, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	// GetSummaries batch-fetches compact author records for the given IDs.
	GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	// Suggested returns users the given user does not follow yet, excluding self.
	Suggested(ctx context.Context, userID int64, limit int) ([]model.UserSummary, error)
}

type FollowRepository interface {
	// Follow inserts the edge and updates both denormalized counters in a
	// single transaction. inserted=false means the edge already existed and
	// nothing changed; counts are only meaningful when inserted is true.
	Follow(ctx context.Context, followerID, followeeID int64) (inserted bool, counts *model.FollowCounts, err error)
	// Unfollow removes the edge and updates both counters transactionally.
	// removed=false means there was no edge to remove.
	Unfollow(ctx context.Context, followerID, followeeID int64) (removed bool, counts *model.FollowCounts, err error)
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	GetFolloweeIDs(ctx context.Context, userID int64) ([]int64, error)
	GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error)
}

type PostRepository interface {
	// Create inserts the post and bumps the author's post_count in one transaction.
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error)
	// GetByAuthors returns posts authored by any of the given users, newest first.
	GetByAuthors(ctx context.Context, authorIDs []int64, limit int) ([]model.Post, error)
	GetRecentByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error)
	// Like inserts the like and bumps like_count transactionally.
	// inserted=false means the user had already liked the post.
	Like(ctx context.Context, postID, userID int64) (inserted bool, err error)
	// Unlike removes the like and decrements like_count transactionally.
	Unlike(ctx context.Context, postID, userID int64) (removed bool, err error)
	// GetLikerIDs batch-fetches the liker ID sets for the given posts.
	GetLikerIDs(ctx context.Context, postIDs []int64) (map[int64][]int64, error)
	// CheckLikes checks which of the given posts the user has liked.
	CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
	Exists(ctx context.Context, postID int64) (bool, error)
}

type CommentRepository interface {
	// Create inserts the comment and bumps the post's comment_count in one transaction.
	Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error)
	GetByPostID(ctx context.Context, postID int64) ([]model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// Delete removes the comment if owned by userID and decrements comment_count.
	Delete(ctx context.Context, commentID, userID int64) error
}

type StoryRepository interface {
	Create(ctx context.Context, story *model.Story) error
	GetByID(ctx context.Context, storyID int64) (*model.Story, error)
	// GetActive returns all non-expired stories, newest first.
	GetActive(ctx context.Context) ([]model.Story, error)
	GetActiveByUser(ctx context.Context, userID int64) ([]model.Story, error)
	// AddViewer records a view; inserting an existing viewer is a no-op.
	AddViewer(ctx context.Context, storyID, userID int64) error
	// GetViewers batch-fetches viewer summaries for the given stories.
	GetViewers(ctx context.Context, storyIDs []int64) (map[int64][]model.UserSummary, error)
}
