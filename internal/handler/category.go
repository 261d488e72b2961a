package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/service"
)

// CategoryHandler exposes the admin code tables. Listing is public; writes
// are admin-only (enforced by the route guard in server.go).
type CategoryHandler struct {
	categories *service.CategoryService
	logger     *slog.Logger
}

func NewCategoryHandler(categories *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// HandleList returns a group's categories.
//
// HTTP: GET /api/categories?group=POST
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context(), r.URL.Query().Get("group"))
	if err != nil {
		writeError(w, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleCheckCode reports whether a code is taken. The answer is advisory;
// HandleCreate can still return 409 if someone takes the code in between.
//
// HTTP: GET /api/admin/categories/check?group=POST&code=N (admin)
func (h *CategoryHandler) HandleCheckCode(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	code, err := strconv.Atoi(r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("code", "must be a number"))
		return
	}

	exists, err := h.categories.CheckCode(r.Context(), group, code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// HandleCreate adds a category. A duplicate (group, code) returns 409.
//
// HTTP: POST /api/admin/categories (admin)
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.categories.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// HandleDelete removes a category.
//
// HTTP: DELETE /api/admin/categories/{id} (admin)
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
