package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
)

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "$2a$04$somehash",
		Nickname:     "tester",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "dup@example.com", "first")

	err := db.Users().Create(context.Background(), &model.User{
		Email:        "dup@example.com",
		PasswordHash: "$2a$04$otherhash",
		Nickname:     "second",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() with duplicate email: error = %v, want ErrConflict", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "find-me@example.com", "findme")

	got, err := db.Users().GetByEmail(context.Background(), "find-me@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail() ID = %q, want %q", got.ID, created.ID)
	}
	if got.Nickname != "findme" {
		t.Errorf("GetByEmail() Nickname = %q, want %q", got.Nickname, "findme")
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdateRole(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "promote@example.com", "promotee")

	if user.Role != model.RoleMember {
		t.Fatalf("new user Role = %v, want RoleMember", user.Role)
	}

	if err := db.Users().UpdateRole(context.Background(), user.ID, model.RoleAdministrator); err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}

	got, err := db.Users().GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Role != model.RoleAdministrator {
		t.Errorf("Role after UpdateRole = %v, want RoleAdministrator", got.Role)
	}
}

func TestUserUpdateRole_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Users().UpdateRole(context.Background(), "ghost", model.RoleAdministrator)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("UpdateRole() error = %v, want ErrNotFound", err)
	}
}

func TestUserList(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "a@example.com", "a")
	createTestUser(t, db, "b@example.com", "b")
	createTestUser(t, db, "c@example.com", "c")

	users, err := db.Users().List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 3 {
		t.Errorf("List() returned %d users, want 3", len(users))
	}
}

func TestUserDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gone@example.com", "gone")

	if err := db.Users().Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.Users().GetByID(context.Background(), user.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete: error = %v, want ErrNotFound", err)
	}
}

func TestUserDelete_CascadesAuthoredContent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com", "author")
	other := createTestUser(t, db, "other@example.com", "other")
	authorPost := createTestPost(t, db, author.ID, "by author")
	otherPost := createTestPost(t, db, other.ID, "by other")

	onAuthorPost := &model.Comment{PostID: authorPost.ID, UserID: other.ID, Content: "hi"}
	if err := db.Comments().CreateComment(ctx, onAuthorPost); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	onOtherPost := &model.Comment{PostID: otherPost.ID, UserID: author.ID, Content: "hello"}
	if err := db.Comments().CreateComment(ctx, onOtherPost); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if err := db.Users().Delete(ctx, author.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.Users().GetByID(ctx, author.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("user survived deletion: error = %v, want ErrNotFound", err)
	}
	if _, err := db.Posts().GetByID(ctx, authorPost.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("author's post survived deletion: error = %v, want ErrNotFound", err)
	}
	if _, err := db.Comments().GetCommentByID(ctx, onAuthorPost.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("comment under the author's post survived: error = %v, want ErrNotFound", err)
	}
	if _, err := db.Comments().GetCommentByID(ctx, onOtherPost.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("author's comment on another post survived: error = %v, want ErrNotFound", err)
	}

	survivor, err := db.Posts().GetByID(ctx, otherPost.ID)
	if err != nil {
		t.Fatalf("other user's post should survive: %v", err)
	}
	if survivor.CommentsCount != 0 {
		t.Errorf("surviving post CommentsCount = %d, want 0", survivor.CommentsCount)
	}
}

func TestUserDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Users().Delete(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "edit@example.com", "before")

	user.Nickname = "after"
	user.ProfileImageURL = "https://img.example.com/p.png"
	if err := db.Users().Update(context.Background(), user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := db.Users().GetByID(context.Background(), user.ID)
	if got.Nickname != "after" {
		t.Errorf("Nickname = %q, want %q", got.Nickname, "after")
	}
	if got.ProfileImageURL != "https://img.example.com/p.png" {
		t.Errorf("ProfileImageURL = %q", got.ProfileImageURL)
	}
}
