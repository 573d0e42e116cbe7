package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vybe/internal/cache"
	"vybe/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and bumps the author's post_count in one transaction.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO posts (user_id, caption, media_url, media_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, like_count, comment_count, created_at, updated_at
	`, p.UserID, p.Caption, p.MediaURL, p.MediaType).Scan(
		&p.ID, &p.LikeCount, &p.CommentCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET post_count = post_count + 1 WHERE id = $1`, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to increment post count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT id, user_id, caption, media_url, media_type, like_count, comment_count, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	var p model.Post
	err := r.db.GetContext(ctx, &p, query, postID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return &p, nil
}

func (r *postRepository) GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, caption, media_url, media_type, like_count, comment_count, created_at, updated_at
		FROM posts
		WHERE id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get posts by ids: %w", err)
	}

	return posts, nil
}

func (r *postRepository) GetByAuthors(ctx context.Context, authorIDs []int64, limit int) ([]model.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, caption, media_url, media_type, like_count, comment_count, created_at, updated_at
		FROM posts
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, pq.Array(authorIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts by authors: %w", err)
	}

	return posts, nil
}

func (r *postRepository) GetRecentByUser(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error) {
	query := `
		SELECT id, created_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryxContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent posts: %w", err)
	}
	defer rows.Close()

	var scores []cache.PostScore
	for rows.Next() {
		var ps cache.PostScore
		var createdAt sql.NullTime
		if err := rows.Scan(&ps.PostID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent post: %w", err)
		}
		ps.Timestamp = createdAt.Time.Unix()
		scores = append(scores, ps)
	}

	return scores, rows.Err()
}

// Like inserts the like edge and bumps like_count in one transaction. The
// composite primary key makes a duplicate like impossible; rows affected tells
// us whether this call inserted anything.
func (r *postRepository) Like(ctx context.Context, postID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET like_count = like_count + 1 WHERE id = $1`, postID)
	if err != nil {
		return false, fmt.Errorf("failed to increment like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return true, nil
}

// Unlike removes the like edge and decrements like_count transactionally.
func (r *postRepository) Unlike(ctx context.Context, postID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET like_count = like_count - 1 WHERE id = $1`, postID)
	if err != nil {
		return false, fmt.Errorf("failed to decrement like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return true, nil
}

func (r *postRepository) GetLikerIDs(ctx context.Context, postIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT post_id, user_id
		FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY created_at
	`

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get likers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, userID int64
		if err := rows.Scan(&postID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan liker: %w", err)
		}
		result[postID] = append(result[postID], userID)
	}

	return result, rows.Err()
}

func (r *postRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `SELECT post_id FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)`

	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(postIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check likes: %w", err)
	}

	for _, id := range postIDs {
		result[id] = false
	}
	for _, id := range likedIDs {
		result[id] = true
	}

	return result, nil
}

func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, postID)
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}

	return exists, nil
}
