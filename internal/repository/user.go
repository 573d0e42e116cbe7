package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vybe/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (user_name, name, email, password_hashed, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, follower_count, following_count, post_count, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.UserName,
		u.Name,
		u.Email,
		u.PasswordHashed,
		u.AvatarURL,
	)

	err := row.Scan(
		&u.ID,
		&u.FollowerCount,
		&u.FollowingCount,
		&u.PostCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, user_name, name, email, password_hashed, bio, avatar_url, avatar_key,
		       follower_count, following_count, post_count, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUserName retrieves a user by their username
func (r *userRepository) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	query := `
		SELECT id, user_name, name, email, password_hashed, bio, avatar_url, avatar_key,
		       follower_count, following_count, post_count, created_at, updated_at
		FROM users
		WHERE user_name = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, userName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// ExistsByEmail checks if an email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ExistsByUserName checks if a username is already taken
func (r *userRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE user_name = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userName)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile persists the mutable profile fields of the user.
func (r *userRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET user_name = $1, name = $2, bio = $3, avatar_url = $4, avatar_key = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		u.UserName, u.Name, u.Bio, u.AvatarURL, u.AvatarKey, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrUserNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

func (r *userRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	if len(ids) == 0 {
		return make(map[int64]model.UserSummary), nil
	}

	query := `SELECT id, user_name, name, avatar_url FROM users WHERE id = ANY($1)`

	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get user summaries: %w", err)
	}

	result := make(map[int64]model.UserSummary, len(users))
	for _, u := range users {
		result[u.ID] = u
	}

	return result, nil
}

func (r *userRepository) Suggested(ctx context.Context, userID int64, limit int) ([]model.UserSummary, error) {
	query := `
		SELECT id, user_name, name, avatar_url
		FROM users
		WHERE id != $1
		  AND id NOT IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		ORDER BY follower_count DESC
		LIMIT $2
	`

	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggested users: %w", err)
	}

	return users, nil
}
