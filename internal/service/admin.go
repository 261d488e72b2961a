package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
)

// AdminService covers administrator-only user management. Role checks happen
// in the middleware; these methods assume the caller is an administrator.
type AdminService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewAdminService(users repository.UserRepository, logger *slog.Logger) *AdminService {
	return &AdminService{users: users, logger: logger}
}

// ListUsers returns registered users, newest first.
func (s *AdminService) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	users, err := s.users.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("service/admin: listing users: %w", err)
	}
	return users, nil
}

// ChangeRole sets a user's role. An administrator cannot change their own
// role; that would allow locking out the last admin.
func (s *AdminService) ChangeRole(ctx context.Context, actorID, targetID string, role model.Role) error {
	if actorID == targetID {
		return apperror.Forbidden("cannot change your own role")
	}

	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		return fmt.Errorf("service/admin: changing role for user %s: %w", targetID, err)
	}

	s.logger.Info("role changed",
		slog.String("actorID", actorID),
		slog.String("targetID", targetID),
		slog.String("role", role.String()),
	)
	return nil
}

// DeleteUser removes an account along with the posts and comments it
// authored. Self-deletion is blocked for the same reason as self-role-change.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperror.Forbidden("cannot delete your own account")
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("service/admin: deleting user %s: %w", targetID, err)
	}

	s.logger.Info("user deleted",
		slog.String("actorID", actorID),
		slog.String("targetID", targetID),
	)
	return nil
}
