package service

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/auth"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
)

// The fakes are hand-rolled in-memory implementations of the repository
// interfaces. No mock framework; what a fake does is visible right here.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testPasswords() *auth.PasswordService {
	return auth.NewPasswordServiceForTest(4)
}

func testTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// ---------------------------------------------------------------- users

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("email is already registered")
		}
	}
	user.ID = "user-" + strconv.Itoa(f.nextID)
	f.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	var users []model.User
	for _, u := range f.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	u, ok := f.users[user.ID]
	if !ok {
		return apperror.NotFound("user", user.ID)
	}
	u.Nickname = user.Nickname
	u.ProfileImageURL = user.ProfileImageURL
	return nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	return nil
}

// ---------------------------------------------------------------- posts

type fakePostRepo struct {
	posts    map[string]*model.Post
	comments *fakeCommentRepo
	nextID   int
}

var _ repository.PostRepository = (*fakePostRepo)(nil)

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:    make(map[string]*model.Post),
		comments: newFakeCommentRepo(),
		nextID:   1,
	}
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	post.ID = "post-" + strconv.Itoa(f.nextID)
	f.nextID++
	post.CreatedAt = time.Now()
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakePostRepo) List(ctx context.Context, category int, opts repository.ListOptions) ([]model.Post, error) {
	var posts []model.Post
	for _, p := range f.posts {
		if category >= 0 && p.Category != category {
			continue
		}
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	p, ok := f.posts[post.ID]
	if !ok {
		return apperror.NotFound("post", post.ID)
	}
	p.Category = post.Category
	p.Title = post.Title
	p.Content = post.Content
	p.ImageURLs = post.ImageURLs
	return nil
}

func (f *fakePostRepo) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(f.posts, id)
	for cid, c := range f.comments.comments {
		if c.PostID == id {
			delete(f.comments.comments, cid)
		}
	}
	return nil
}

func (f *fakePostRepo) IncrementLikes(ctx context.Context, id string) (int, error) {
	p, ok := f.posts[id]
	if !ok {
		return 0, apperror.NotFound("post", id)
	}
	p.Likes++
	return p.Likes, nil
}

// ---------------------------------------------------------------- comments

type fakeCommentRepo struct {
	comments map[string]*model.Comment
	posts    *fakePostRepo
	nextID   int
}

var _ repository.CommentRepository = (*fakeCommentRepo)(nil)

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*model.Comment), nextID: 1}
}

func (f *fakeCommentRepo) CreateComment(ctx context.Context, comment *model.Comment) error {
	if f.posts != nil {
		p, ok := f.posts.posts[comment.PostID]
		if !ok {
			return apperror.NotFound("post", comment.PostID)
		}
		p.CommentsCount++
	}
	comment.ID = "comment-" + strconv.Itoa(f.nextID)
	f.nextID++
	comment.CreatedAt = time.Now()
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	var comments []model.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (f *fakeCommentRepo) DeleteComment(ctx context.Context, id string) error {
	c, ok := f.comments[id]
	if !ok {
		return apperror.NotFound("comment", id)
	}
	if f.posts != nil {
		if p, ok := f.posts.posts[c.PostID]; ok && p.CommentsCount > 0 {
			p.CommentsCount--
		}
	}
	delete(f.comments, id)
	return nil
}

// newFakeBoard wires a post repo and comment repo that share state, the way
// the sqlite implementation shares one database.
func newFakeBoard() (*fakePostRepo, *fakeCommentRepo) {
	posts := newFakePostRepo()
	posts.comments.posts = posts
	return posts, posts.comments
}

// ---------------------------------------------------------------- categories

type fakeCategoryRepo struct {
	categories map[string]*model.Category
	nextID     int
}

var _ repository.CategoryRepository = (*fakeCategoryRepo)(nil)

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*model.Category), nextID: 1}
}

func (f *fakeCategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	for _, c := range f.categories {
		if c.Group == category.Group && c.Code == category.Code {
			return apperror.Conflict("code already exists")
		}
	}
	category.ID = "category-" + strconv.Itoa(f.nextID)
	f.nextID++
	category.CreatedAt = time.Now()
	copied := *category
	f.categories[category.ID] = &copied
	return nil
}

func (f *fakeCategoryRepo) CodeExists(ctx context.Context, group string, code int) (bool, error) {
	for _, c := range f.categories {
		if c.Group == group && c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryRepo) ListByGroup(ctx context.Context, group string) ([]model.Category, error) {
	var categories []model.Category
	for _, c := range f.categories {
		if c.Group == group {
			categories = append(categories, *c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Code < categories[j].Code })
	return categories, nil
}

func (f *fakeCategoryRepo) DeleteCategory(ctx context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return apperror.NotFound("category", id)
	}
	delete(f.categories, id)
	return nil
}

// ---------------------------------------------------------------- guestbook

type fakeGuestbookRepo struct {
	entries map[string]*model.GuestbookEntry
	nextID  int
}

var _ repository.GuestbookRepository = (*fakeGuestbookRepo)(nil)

func newFakeGuestbookRepo() *fakeGuestbookRepo {
	return &fakeGuestbookRepo{entries: make(map[string]*model.GuestbookEntry), nextID: 1}
}

func (f *fakeGuestbookRepo) CreateEntry(ctx context.Context, entry *model.GuestbookEntry) error {
	entry.ID = "entry-" + strconv.Itoa(f.nextID)
	f.nextID++
	entry.CreatedAt = time.Now()
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeGuestbookRepo) GetEntryByID(ctx context.Context, id string) (*model.GuestbookEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, apperror.NotFound("guestbook entry", id)
	}
	copied := *e
	return &copied, nil
}

func (f *fakeGuestbookRepo) ListEntries(ctx context.Context, opts repository.ListOptions) ([]model.GuestbookEntry, error) {
	var entries []model.GuestbookEntry
	for _, e := range f.entries {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return entries, nil
}

func (f *fakeGuestbookRepo) UpdateEntry(ctx context.Context, entry *model.GuestbookEntry) error {
	e, ok := f.entries[entry.ID]
	if !ok {
		return apperror.NotFound("guestbook entry", entry.ID)
	}
	e.Name = entry.Name
	e.Message = entry.Message
	return nil
}

func (f *fakeGuestbookRepo) DeleteEntry(ctx context.Context, id string) error {
	if _, ok := f.entries[id]; !ok {
		return apperror.NotFound("guestbook entry", id)
	}
	delete(f.entries, id)
	return nil
}
