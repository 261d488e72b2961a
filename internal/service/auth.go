// Package service holds the business logic between the HTTP handlers and the
// repositories. Services validate input, enforce ownership and role rules,
// and translate repository errors into the apperror taxonomy.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/auth"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
)

const minPasswordLength = 8

// loginFailedMessage is returned for every login failure cause. An unknown
// email and a wrong password must be indistinguishable to the caller.
const loginFailedMessage = "email or password is incorrect"

// AuthService handles signup, login, and profile reads.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the session projection and the issued JWT so the handler
// can set the cookie and respond in one step.
type AuthResult struct {
	Session *model.Session
	Token   string
}

// SignupInput is the payload for Signup.
type SignupInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Signup validates the input, hashes the password, and creates the account.
// A duplicate email surfaces as apperror.ErrConflict from the repository's
// unique constraint; there is no pre-check to race against.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Nickname = strings.TrimSpace(in.Nickname)

	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperror.ValidationFailed("email", "must be a valid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperror.ValidationFailed("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if in.Nickname == "" {
		return nil, apperror.ValidationFailed("nickname", "must not be empty")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:           in.Email,
		PasswordHash:    hash,
		Nickname:        in.Nickname,
		ProfileImageURL: strings.TrimSpace(in.ProfileImageURL),
		Role:            model.RoleMember,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("nickname", user.Nickname),
	)
	return user, nil
}

// Login verifies the credentials and issues a session. Every failure path
// returns the same generic unauthorized error; which step failed is logged
// but never exposed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("login failed: unknown email", slog.String("email", email))
			return nil, apperror.Unauthorized(loginFailedMessage)
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: wrong password", slog.String("userID", user.ID))
		return nil, apperror.Unauthorized(loginFailedMessage)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{
		Session: model.NewSession(user, time.Now().UTC()),
		Token:   token,
	}, nil
}

// GetUserByID returns the user for an internal ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "must not be empty")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}

// UpdateProfileInput is the payload for UpdateProfile.
type UpdateProfileInput struct {
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profile_image_url"`
}

// UpdateProfile changes a user's own display fields. Email and role are not
// editable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error) {
	in.Nickname = strings.TrimSpace(in.Nickname)
	if in.Nickname == "" {
		return nil, apperror.ValidationFailed("nickname", "must not be empty")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", userID, err)
	}

	user.Nickname = in.Nickname
	user.ProfileImageURL = in.ProfileImageURL
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: updating user %s: %w", userID, err)
	}
	return user, nil
}
