package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vybe/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow inserts the follow edge and updates both users' counters in a single
// transaction. The composite primary key plus ON CONFLICT DO NOTHING makes the
// insert idempotent under concurrent calls; rows affected tells us whether this
// call won the edge.
func (r *followRepository) Follow(ctx context.Context, followerID, followeeID int64) (bool, *model.FollowCounts, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil, nil
	}

	counts, err := r.adjustCounts(ctx, tx, followerID, followeeID, 1)
	if err != nil {
		return false, nil, err
	}

	if err := tx.Commit(); err != nil {
		return false, nil, fmt.Errorf("commit transaction: %w", err)
	}

	return true, counts, nil
}

// Unfollow removes the edge and updates both counters transactionally.
func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID int64) (bool, *model.FollowCounts, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to delete follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil, nil
	}

	counts, err := r.adjustCounts(ctx, tx, followerID, followeeID, -1)
	if err != nil {
		return false, nil, err
	}

	if err := tx.Commit(); err != nil {
		return false, nil, fmt.Errorf("commit transaction: %w", err)
	}

	return true, counts, nil
}

// adjustCounts applies delta to the follower's following_count and the
// followee's follower_count, returning the updated values.
func (r *followRepository) adjustCounts(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64, delta int) (*model.FollowCounts, error) {
	var counts model.FollowCounts

	err := tx.QueryRowxContext(ctx, `
		UPDATE users SET following_count = following_count + $1 WHERE id = $2
		RETURNING following_count
	`, delta, followerID).Scan(&counts.Following)
	if err != nil {
		return nil, fmt.Errorf("failed to update following count: %w", err)
	}

	err = tx.QueryRowxContext(ctx, `
		UPDATE users SET follower_count = follower_count + $1 WHERE id = $2
		RETURNING follower_count
	`, delta, followeeID).Scan(&counts.Followers)
	if err != nil {
		return nil, fmt.Errorf("failed to update follower count: %w", err)
	}

	return &counts, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

func (r *followRepository) GetFolloweeIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT followee_id FROM follows WHERE follower_id = $1`

	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followee ids: %w", err)
	}
	return ids, nil
}

func (r *followRepository) GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT follower_id FROM follows WHERE followee_id = $1`

	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get follower ids: %w", err)
	}
	return ids, nil
}
