package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vybe/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the post's comment_count in one transaction.
func (r *commentRepository) Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	c := model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO comments (post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`, postID, userID, content).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET comment_count = comment_count + 1 WHERE id = $1`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &c, nil
}

// GetByPostID returns a post's comments newest first, with author summaries joined.
func (r *commentRepository) GetByPostID(ctx context.Context, postID int64) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.id AS author_id, u.user_name, u.name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		var author model.UserSummary
		err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt,
			&author.ID, &author.UserName, &author.Name, &author.AvatarURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Author = &author
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, post_id, user_id, content, created_at
		FROM comments
		WHERE id = $1
	`

	var c model.Comment
	err := r.db.GetContext(ctx, &c, query, commentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &c, nil
}

// Delete removes the comment only if owned by userID, and keeps the post's
// comment_count in step within the same transaction.
func (r *commentRepository) Delete(ctx context.Context, commentID, userID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var postID int64
	var ownerID int64
	err = tx.QueryRowxContext(ctx,
		`SELECT post_id, user_id FROM comments WHERE id = $1`, commentID,
	).Scan(&postID, &ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrCommentNotFound
		}
		return fmt.Errorf("failed to get comment: %w", err)
	}

	if ownerID != userID {
		return model.ErrNotCommentOwner
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET comment_count = comment_count - 1 WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to decrement comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
