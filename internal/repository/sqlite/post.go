package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
)

// compile-time check that *PostDB implements repository.PostRepository
var _ repository.PostRepository = (*PostDB)(nil)

// PostDB implements repository.PostRepository.
type PostDB struct {
	conn *sql.DB
}

const postColumns = `p.id, p.user_id, p.category, p.title, p.content, p.image_urls,
	p.comments_count, p.likes, p.created_at, u.nickname`

// Create inserts a new post. Image URLs are stored as a JSON array in a
// single column.
func (db *PostDB) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = xid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	urls, err := encodeImageURLs(post.ImageURLs)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, category, title, content, image_urls, comments_count, likes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?)`,
		post.ID, post.UserID, post.Category, post.Title, post.Content, urls, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}
	return nil
}

// GetByID retrieves a post with its author's nickname joined in.
func (db *PostDB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.user_id WHERE p.id = ?`, id,
	)
	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}
	return post, nil
}

// List returns posts newest first. category < 0 means all categories.
func (db *PostDB) List(ctx context.Context, category int, opts repository.ListOptions) ([]model.Post, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + postColumns + ` FROM posts p JOIN users u ON u.id = p.user_id`
	args := []any{}
	if category >= 0 {
		query += ` WHERE p.category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// Update rewrites a post's editable fields.
func (db *PostDB) Update(ctx context.Context, post *model.Post) error {
	urls, err := encodeImageURLs(post.ImageURLs)
	if err != nil {
		return err
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET category = ?, title = ?, content = ?, image_urls = ? WHERE id = ?`,
		post.Category, post.Title, post.Content, urls, post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}
	return checkAffected(res, "post", post.ID)
}

// DeleteCascade removes a post and its comments atomically. Either both
// deletes apply or neither does.
func (db *PostDB) DeleteCascade(ctx context.Context, id string) error {
	return inTx(ctx, db.conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: deleting comments for post %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
		}
		return checkAffected(res, "post", id)
	})
}

// IncrementLikes bumps the like counter and returns the new value.
func (db *PostDB) IncrementLikes(ctx context.Context, id string) (int, error) {
	var likes int
	err := db.conn.QueryRowContext(ctx,
		`UPDATE posts SET likes = likes + 1 WHERE id = ? RETURNING likes`, id,
	).Scan(&likes)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, apperror.NotFound("post", id)
		}
		return 0, fmt.Errorf("sqlite: incrementing likes for post %s: %w", id, err)
	}
	return likes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	var (
		p    model.Post
		urls string
	)
	if err := row.Scan(
		&p.ID, &p.UserID, &p.Category, &p.Title, &p.Content, &urls,
		&p.CommentsCount, &p.Likes, &p.CreatedAt, &p.AuthorNickname,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(urls), &p.ImageURLs); err != nil {
		return nil, fmt.Errorf("decoding image_urls: %w", err)
	}
	return &p, nil
}

func encodeImageURLs(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding image_urls: %w", err)
	}
	return string(b), nil
}
