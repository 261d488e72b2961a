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

const (
	maxTitleLength   = 200
	maxContentLength = 20000
)

// PostService handles board posts and their comments.
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewPostService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		logger:   logger,
	}
}

// PostInput is the payload for Create and Update.
type PostInput struct {
	Category  int      `json:"category"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"image_urls"`
}

func validatePostInput(in PostInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return apperror.ValidationFailed("title", "must not be empty")
	}
	if len(title) > maxTitleLength {
		return apperror.ValidationFailed("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	}
	if len(in.Content) > maxContentLength {
		return apperror.ValidationFailed("content", fmt.Sprintf("must be at most %d characters", maxContentLength))
	}
	if in.Category < 0 {
		return apperror.ValidationFailed("category", "must not be negative")
	}
	return nil
}

// Create makes a new post owned by userID.
func (s *PostService) Create(ctx context.Context, userID string, in PostInput) (*model.Post, error) {
	if err := validatePostInput(in); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:    userID,
		Category:  in.Category,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		ImageURLs: in.ImageURLs,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("userID", userID),
	)
	return post, nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/post: fetching post %s: %w", id, err)
	}
	return post, nil
}

// List returns posts newest first. category < 0 means all categories.
func (s *PostService) List(ctx context.Context, category int, opts repository.ListOptions) ([]model.Post, error) {
	posts, err := s.posts.List(ctx, category, opts)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	return posts, nil
}

// Update edits a post. Only the owner may edit.
func (s *PostService) Update(ctx context.Context, userID, postID string, in PostInput) (*model.Post, error) {
	if err := validatePostInput(in); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("service/post: fetching post %s: %w", postID, err)
	}
	if post.UserID != userID {
		return nil, apperror.Forbidden("only the author can edit this post")
	}

	post.Category = in.Category
	post.Title = strings.TrimSpace(in.Title)
	post.Content = in.Content
	post.ImageURLs = in.ImageURLs
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: updating post %s: %w", postID, err)
	}
	return post, nil
}

// Delete removes a post and all of its comments. Only the owner may delete;
// the repository performs both deletes in a single transaction.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("service/post: fetching post %s: %w", postID, err)
	}
	if post.UserID != userID {
		return apperror.Forbidden("only the author can delete this post")
	}

	if err := s.posts.DeleteCascade(ctx, postID); err != nil {
		return fmt.Errorf("service/post: deleting post %s: %w", postID, err)
	}

	s.logger.Info("post deleted",
		slog.String("postID", postID),
		slog.String("userID", userID),
		slog.Int("commentsRemoved", post.CommentsCount),
	)
	return nil
}

// Like increments a post's like counter and returns the new count. Any
// signed-in user may like any post, repeatedly.
func (s *PostService) Like(ctx context.Context, postID string) (int, error) {
	likes, err := s.posts.IncrementLikes(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("service/post: liking post %s: %w", postID, err)
	}
	return likes, nil
}

// AddComment creates a comment on a post.
func (s *PostService) AddComment(ctx context.Context, userID, postID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "must not be empty")
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("service/post: creating comment on post %s: %w", postID, err)
	}
	return comment, nil
}

// ListComments returns a post's comments oldest first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing comments for post %s: %w", postID, err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("service/post: fetching comment %s: %w", commentID, err)
	}
	if comment.UserID != userID {
		return apperror.Forbidden("only the author can delete this comment")
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("service/post: deleting comment %s: %w", commentID, err)
	}
	return nil
}
