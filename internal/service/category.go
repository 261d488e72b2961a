package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
)

// CategoryService manages the admin code tables.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewCategoryService(categories repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

// CategoryInput is the payload for Create.
type CategoryInput struct {
	Group string `json:"category_group"`
	Code  int    `json:"code"`
	Name  string `json:"name"`
}

// Create adds a category. The database's unique constraint on (group, code)
// decides duplicates; CheckCode is only a courtesy for the UI.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	in.Group = strings.TrimSpace(in.Group)
	in.Name = strings.TrimSpace(in.Name)

	if in.Group == "" {
		return nil, apperror.ValidationFailed("category_group", "must not be empty")
	}
	if in.Name == "" {
		return nil, apperror.ValidationFailed("name", "must not be empty")
	}
	if in.Code < 0 {
		return nil, apperror.ValidationFailed("code", "must not be negative")
	}

	category := &model.Category{
		Group: in.Group,
		Code:  in.Code,
		Name:  in.Name,
	}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("service/category: creating category: %w", err)
	}

	s.logger.Info("category created",
		slog.String("group", category.Group),
		slog.Int("code", category.Code),
	)
	return category, nil
}

// CheckCode reports whether a code is already taken within a group. The
// answer can be stale by the time the caller acts on it.
func (s *CategoryService) CheckCode(ctx context.Context, group string, code int) (bool, error) {
	exists, err := s.categories.CodeExists(ctx, group, code)
	if err != nil {
		return false, fmt.Errorf("service/category: checking code: %w", err)
	}
	return exists, nil
}

// List returns a group's categories ordered by code.
func (s *CategoryService) List(ctx context.Context, group string) ([]model.Category, error) {
	if group == "" {
		group = model.CategoryGroupPost
	}
	categories, err := s.categories.ListByGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("service/category: listing categories: %w", err)
	}
	return categories, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("service/category: deleting category %s: %w", id, err)
	}
	return nil
}
