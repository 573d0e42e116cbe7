package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vybe/internal/model"
	"vybe/internal/repository"
)

const suggestedUsersLimit = 10

// UserService handles business logic for user accounts and profiles.
type UserService struct {
	repo             repository.UserRepository
	defaultAvatarURL string
}

func NewUserService(repo repository.UserRepository, defaultAvatarURL string) *UserService {
	return &UserService{
		repo:             repo,
		defaultAvatarURL: defaultAvatarURL,
	}
}

// SignUp creates a new user account.
func (s *UserService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.User, error) {
	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Password) == "" ||
		strings.TrimSpace(req.UserName) == "" {
		return nil, model.ErrFieldsRequired
	}

	// Duplicate email and username are checked separately so each produces
	// its own message.
	emailExists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailExists {
		return nil, model.ErrEmailExists
	}

	nameExists, err := s.repo.ExistsByUserName(ctx, req.UserName)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if nameExists {
		return nil, model.ErrUserNameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		UserName:       req.UserName,
		Name:           req.Name,
		Email:          req.Email,
		PasswordHashed: string(hashedPassword),
	}
	if s.defaultAvatarURL != "" {
		user.AvatarURL = &s.defaultAvatarURL
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// SignIn authenticates a user by username and password.
func (s *UserService) SignIn(ctx context.Context, req *model.SignInRequest) (*model.User, error) {
	user, err := s.repo.GetByUserName(ctx, req.UserName)
	if err != nil {
		// Don't reveal whether the username exists
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile retrieves a public profile by username.
func (s *UserService) GetProfile(ctx context.Context, userName string) (*model.User, error) {
	return s.repo.GetByUserName(ctx, userName)
}

// EditProfile applies the provided profile changes. Nil fields are left
// unchanged; a username change is validated against existing accounts.
func (s *UserService) EditProfile(ctx context.Context, userID int64, req *model.EditProfileRequest) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.UserName != nil && *req.UserName != user.UserName {
		newName := strings.TrimSpace(*req.UserName)
		if newName == "" {
			return nil, fmt.Errorf("username cannot be empty")
		}
		exists, err := s.repo.ExistsByUserName(ctx, newName)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			return nil, model.ErrUserNameExists
		}
		user.UserName = newName
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
		user.AvatarKey = req.AvatarKey
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Suggested returns users the caller does not follow yet, most-followed first.
func (s *UserService) Suggested(ctx context.Context, userID int64) ([]model.UserSummary, error) {
	users, err := s.repo.Suggested(ctx, userID, suggestedUsersLimit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.UserSummary{}
	}
	return users, nil
}
