// Package repository defines the storage interfaces the services depend on.
// Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/hyeonwook/anonboard/internal/model"
)

// ListOptions controls pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, id string, role model.Role) error
	// Delete removes the user and everything they authored (posts, comments)
	// in one transaction.
	Delete(ctx context.Context, id string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, category int, opts ListOptions) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	// DeleteCascade removes a post and all of its comments in one transaction.
	DeleteCascade(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) (int, error)
}

type CommentRepository interface {
	// CreateComment inserts the comment and bumps the post's comment count in
	// the same transaction.
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
	// DeleteComment removes the comment and decrements the post's comment
	// count in the same transaction.
	DeleteComment(ctx context.Context, id string) error
}

type CategoryRepository interface {
	// CreateCategory fails with apperror.ErrConflict when (group, code) is
	// already taken. The unique constraint in the database is authoritative;
	// CodeExists is only an advisory pre-check.
	CreateCategory(ctx context.Context, category *model.Category) error
	CodeExists(ctx context.Context, group string, code int) (bool, error)
	ListByGroup(ctx context.Context, group string) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type GuestbookRepository interface {
	CreateEntry(ctx context.Context, entry *model.GuestbookEntry) error
	GetEntryByID(ctx context.Context, id string) (*model.GuestbookEntry, error)
	ListEntries(ctx context.Context, opts ListOptions) ([]model.GuestbookEntry, error)
	UpdateEntry(ctx context.Context, entry *model.GuestbookEntry) error
	DeleteEntry(ctx context.Context, id string) error
}
