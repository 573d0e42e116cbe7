package model

import (
	"errors"
	"time"
)

// User represents a user account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	UserName       string    `db:"user_name" json:"user_name"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	Bio            *string   `db:"bio" json:"bio"`
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url"`
	AvatarKey      *string   `db:"avatar_key" json:"-"`
	FollowerCount  int       `db:"follower_count" json:"follower_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	PostCount      int       `db:"post_count" json:"post_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the compact author representation embedded in posts,
// stories and comments.
type UserSummary struct {
	ID        int64   `db:"id" json:"id"`
	UserName  string  `db:"user_name" json:"user_name"`
	Name      string  `db:"name" json:"name"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url"`
}

// Summary returns the compact representation of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		UserName:  u.UserName,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

// SignUpRequest represents the data needed to create an account.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserName string `json:"user_name"`
}

// SignInRequest represents the data needed to sign in.
type SignInRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// EditProfileRequest carries the optional profile fields accepted by editprofile.
// Nil means "leave unchanged".
type EditProfileRequest struct {
	Name      *string
	UserName  *string
	Bio       *string
	AvatarURL *string
	AvatarKey *string
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when signing up with a registered email
	ErrEmailExists = errors.New("user with this email already exists")

	// ErrUserNameExists is returned when signing up with a taken username
	ErrUserNameExists = errors.New("user with this username already exists")

	// ErrInvalidCredentials is returned when sign-in credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrFieldsRequired is returned when a signup field is missing or blank
	ErrFieldsRequired = errors.New("all fields are required")
)
