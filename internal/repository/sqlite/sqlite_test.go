package sqlite

import (
	"context"
	"testing"

	"github.com/hyeonwook/anonboard/internal/model"
)

// newTestDB returns an in-memory database with migrations applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, email, nickname string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakehashfortestingonly",
		Nickname:     nickname,
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestPost creates a post owned by userID and fails the test if it errors.
func createTestPost(t *testing.T, db *DB, userID, title string) *model.Post {
	t.Helper()
	post := &model.Post{
		UserID:   userID,
		Category: 1,
		Title:    title,
		Content:  "test content",
	}
	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}
