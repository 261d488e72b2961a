package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/auth"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
	"github.com/hyeonwook/anonboard/internal/service"
)

// PostHandler exposes the board: posts, comments, likes.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// HandleList returns posts, newest first.
//
// HTTP: GET /api/posts?category=N&limit=N&offset=N
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	category := -1
	if raw := r.URL.Query().Get("category"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperror.ValidationFailed("category", "must be a number"))
			return
		}
		category = parsed
	}

	posts, err := h.posts.List(r.Context(), category, listOptionsFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns a single post.
//
// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleCreate creates a post owned by the signed-in user.
//
// HTTP: POST /api/posts (requires auth)
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not signed in"))
		return
	}

	var in service.PostInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), principal.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// HandleUpdate edits a post. Non-owners get 403.
//
// HTTP: PUT /api/posts/{id} (requires auth)
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not signed in"))
		return
	}

	var in service.PostInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), principal.UserID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post and its comments. Non-owners get 403.
//
// HTTP: DELETE /api/posts/{id} (requires auth)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not signed in"))
		return
	}

	if err := h.posts.Delete(r.Context(), principal.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLike bumps the like counter.
//
// HTTP: POST /api/posts/{id}/like (requires auth)
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	likes, err := h.posts.Like(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": likes})
}

// HandleListComments returns a post's comments, oldest first.
//
// HTTP: GET /api/posts/{id}/comments
func (h *PostHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.posts.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// HandleAddComment creates a comment on a post.
//
// HTTP: POST /api/posts/{id}/comments (requires auth)
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not signed in"))
		return
	}

	var in struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.posts.AddComment(r.Context(), principal.UserID, chi.URLParam(r, "id"), in.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// HandleDeleteComment removes a comment. Non-authors get 403.
//
// HTTP: DELETE /api/comments/{id} (requires auth)
func (h *PostHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not signed in"))
		return
	}

	if err := h.posts.DeleteComment(r.Context(), principal.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listOptionsFromQuery parses limit/offset, ignoring junk values.
func listOptionsFromQuery(r *http.Request) repository.ListOptions {
	opts := repository.ListOptions{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			opts.Offset = n
		}
	}
	return opts
}
