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

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB implements repository.UserRepository.
type UserDB struct {
	conn *sql.DB
}

// Create inserts a new user. A duplicate email surfaces as
// apperror.ErrConflict regardless of any pre-check the caller did.
func (db *UserDB) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = xid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, nickname, profile_image_url, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Nickname,
		user.ProfileImageURL,
		user.Role.Code(),
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email is already registered")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by internal ID.
func (db *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email address.
func (db *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

func (db *UserDB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u        model.User
		roleCode string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, nickname, profile_image_url, role, created_at
		 FROM users `+where, arg,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Nickname,
		&u.ProfileImageURL,
		&roleCode,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	u.Role, _ = model.ParseRoleCode(roleCode)
	return &u, nil
}

// List returns users ordered by creation time, newest first.
func (db *UserDB) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, email, password_hash, nickname, profile_image_url, role, created_at
		 FROM users ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var (
			u        model.User
			roleCode string
		)
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Nickname,
			&u.ProfileImageURL, &roleCode, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		u.Role, _ = model.ParseRoleCode(roleCode)
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update rewrites the user's mutable profile fields.
func (db *UserDB) Update(ctx context.Context, user *model.User) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET nickname = ?, profile_image_url = ? WHERE id = ?`,
		user.Nickname, user.ProfileImageURL, user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	return checkAffected(res, "user", user.ID)
}

// UpdateRole changes a single user's role.
func (db *UserDB) UpdateRole(ctx context.Context, id string, role model.Role) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ?`, role.Code(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating role for user %s: %w", id, err)
	}
	return checkAffected(res, "user", id)
}

// Delete removes a user together with everything they authored: their
// comments, their posts, and the comments under those posts, in a single
// transaction. Surviving posts the user had commented on get their counters
// adjusted down.
func (db *UserDB) Delete(ctx context.Context, id string) error {
	return inTx(ctx, db.conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE posts
			 SET comments_count = max(comments_count - (
			         SELECT COUNT(*) FROM comments
			         WHERE comments.post_id = posts.id AND comments.user_id = ?
			     ), 0)
			 WHERE user_id != ?
			   AND id IN (SELECT post_id FROM comments WHERE user_id = ?)`,
			id, id, id,
		)
		if err != nil {
			return fmt.Errorf("sqlite: adjusting comment counts for user %s: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comments WHERE user_id = ?`, id,
		); err != nil {
			return fmt.Errorf("sqlite: deleting comments by user %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comments WHERE post_id IN (SELECT id FROM posts WHERE user_id = ?)`, id,
		); err != nil {
			return fmt.Errorf("sqlite: deleting comments on posts by user %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM posts WHERE user_id = ?`, id,
		); err != nil {
			return fmt.Errorf("sqlite: deleting posts by user %s: %w", id, err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
		}
		return checkAffected(res, "user", id)
	})
}

// checkAffected converts a zero-row write into apperror.ErrNotFound.
func checkAffected(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: reading rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
