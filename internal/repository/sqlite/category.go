package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
)

// compile-time check that *CategoryDB implements repository.CategoryRepository
var _ repository.CategoryRepository = (*CategoryDB)(nil)

// CategoryDB implements repository.CategoryRepository.
type CategoryDB struct {
	conn *sql.DB
}

// CreateCategory inserts a code-table row. The UNIQUE(category_group, code)
// constraint is what actually prevents duplicate codes; two concurrent
// inserts for the same code cannot both succeed, and the loser gets
// apperror.ErrConflict.
func (db *CategoryDB) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = xid.New().String()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, category_group, code, name, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		category.ID, category.Group, category.Code, category.Name, category.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("code %d already exists in group %s", category.Code, category.Group))
		}
		return fmt.Errorf("sqlite: inserting category: %w", err)
	}
	return nil
}

// CodeExists reports whether a code is already taken within a group. Advisory
// only; CreateCategory remains the authority.
func (db *CategoryDB) CodeExists(ctx context.Context, group string, code int) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE category_group = ? AND code = ?)`,
		group, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking category code: %w", err)
	}
	return exists, nil
}

// ListByGroup returns a group's categories ordered by code.
func (db *CategoryDB) ListByGroup(ctx context.Context, group string) ([]model.Category, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, category_group, code, name, created_at
		 FROM categories WHERE category_group = ? ORDER BY code ASC`, group,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories for group %s: %w", group, err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Group, &c.Code, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category row.
func (db *CategoryDB) DeleteCategory(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %s: %w", id, err)
	}
	return checkAffected(res, "category", id)
}
