package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vybe/internal/model"
)

type storyRepository struct {
	db *sqlx.DB
}

func NewStoryRepository(db *sqlx.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, s *model.Story) error {
	query := `
		INSERT INTO stories (user_id, media_url, media_type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.UserID, s.MediaURL, s.MediaType, s.ExpiresAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert story: %w", err)
	}

	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, storyID int64) (*model.Story, error) {
	query := `
		SELECT id, user_id, media_url, media_type, expires_at, created_at
		FROM stories
		WHERE id = $1
	`

	var s model.Story
	err := r.db.GetContext(ctx, &s, query, storyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story by id: %w", err)
	}

	return &s, nil
}

// GetActive returns every story still inside its TTL, newest first. Expiry is
// an index-backed predicate, never an application sweep.
func (r *storyRepository) GetActive(ctx context.Context) ([]model.Story, error) {
	query := `
		SELECT id, user_id, media_url, media_type, expires_at, created_at
		FROM stories
		WHERE expires_at > NOW()
		ORDER BY created_at DESC, id DESC
	`

	var stories []model.Story
	err := r.db.SelectContext(ctx, &stories, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active stories: %w", err)
	}

	return stories, nil
}

func (r *storyRepository) GetActiveByUser(ctx context.Context, userID int64) ([]model.Story, error) {
	query := `
		SELECT id, user_id, media_url, media_type, expires_at, created_at
		FROM stories
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC, id DESC
	`

	var stories []model.Story
	err := r.db.SelectContext(ctx, &stories, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stories: %w", err)
	}

	return stories, nil
}

// AddViewer records a view. The composite primary key makes repeat views
// no-ops; a story can never become unviewed.
func (r *storyRepository) AddViewer(ctx context.Context, storyID, userID int64) error {
	query := `
		INSERT INTO story_views (story_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (story_id, user_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, storyID, userID)
	if err != nil {
		return fmt.Errorf("failed to add story viewer: %w", err)
	}

	return nil
}

func (r *storyRepository) GetViewers(ctx context.Context, storyIDs []int64) (map[int64][]model.UserSummary, error) {
	result := make(map[int64][]model.UserSummary, len(storyIDs))
	if len(storyIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT v.story_id, u.id, u.user_name, u.name, u.avatar_url
		FROM story_views v
		JOIN users u ON u.id = v.user_id
		WHERE v.story_id = ANY($1)
		ORDER BY v.created_at
	`

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(storyIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get story viewers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var storyID int64
		var u model.UserSummary
		if err := rows.Scan(&storyID, &u.ID, &u.UserName, &u.Name, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan story viewer: %w", err)
		}
		result[storyID] = append(result[storyID], u)
	}

	return result, rows.Err()
}
