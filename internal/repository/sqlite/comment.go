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

// compile-time check that *CommentDB implements repository.CommentRepository
var _ repository.CommentRepository = (*CommentDB)(nil)

// CommentDB implements repository.CommentRepository. Its writes also touch
// the posts table to keep comments_count in step.
type CommentDB struct {
	conn *sql.DB
}

// CreateComment inserts the comment and increments the parent post's counter
// in one transaction, so the count never drifts from the rows.
func (db *CommentDB) CreateComment(ctx context.Context, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = xid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	return inTx(ctx, db.conn, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE posts SET comments_count = comments_count + 1 WHERE id = ?`,
			comment.PostID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: incrementing comment count: %w", err)
		}
		if err := checkAffected(res, "post", comment.PostID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO comments (id, post_id, user_id, content, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			comment.ID, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting comment: %w", err)
		}
		return nil
	})
}

// GetCommentByID retrieves a single comment.
func (db *CommentDB) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := db.conn.QueryRowContext(ctx,
		`SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.nickname
		 FROM comments c JOIN users u ON u.id = c.user_id WHERE c.id = ?`, id,
	).Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.AuthorNickname)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}
	return &c, nil
}

// ListByPost returns a post's comments oldest first.
func (db *CommentDB) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.nickname
		 FROM comments c JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = ? ORDER BY c.created_at ASC, c.id ASC`, postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %s: %w", postID, err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.AuthorNickname); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes the comment and decrements the post's counter in one
// transaction.
func (db *CommentDB) DeleteComment(ctx context.Context, id string) error {
	return inTx(ctx, db.conn, func(tx *sql.Tx) error {
		var postID string
		err := tx.QueryRowContext(ctx,
			`DELETE FROM comments WHERE id = ? RETURNING post_id`, id,
		).Scan(&postID)
		if err != nil {
			if err == sql.ErrNoRows {
				return apperror.NotFound("comment", id)
			}
			return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE posts SET comments_count = MAX(comments_count - 1, 0) WHERE id = ?`,
			postID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: decrementing comment count: %w", err)
		}
		return nil
	})
}
