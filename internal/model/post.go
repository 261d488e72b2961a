package model

import "time"

// Post is a board post owned by a user. Edit and delete are permitted only to
// the owning user; deleting a post removes its comments in the same
// transaction (see repository/sqlite).
type Post struct {
	ID            string    `json:"id"             db:"id"`
	UserID        string    `json:"user_id"        db:"user_id"`
	Category      int       `json:"category"       db:"category"` // category code within the post category group
	Title         string    `json:"title"          db:"title"`
	Content       string    `json:"content"        db:"content"`
	ImageURLs     []string  `json:"image_urls"     db:"image_urls"`
	CommentsCount int       `json:"comments_count" db:"comments_count"`
	Likes         int       `json:"likes"          db:"likes"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`

	// AuthorNickname is joined in on reads for display; it is not a column
	// of the posts table.
	AuthorNickname string `json:"author_nickname,omitempty" db:"-"`
}

// Comment belongs to a post and is owned by a user.
type Comment struct {
	ID        string    `json:"id"         db:"id"`
	PostID    string    `json:"post_id"    db:"post_id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Content   string    `json:"content"    db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	AuthorNickname string `json:"author_nickname,omitempty" db:"-"`
}
