package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/auth"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/service"
)

// AdminHandler exposes user management. Every route is behind the
// administrator guard; the handlers still need the acting principal for the
// self-modification checks.
type AdminHandler struct {
	admin  *service.AdminService
	logger *slog.Logger
}

func NewAdminHandler(admin *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// adminUser is the list projection for the user management page. The role
// travels as its storage code.
type adminUser struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profile_image_url"`
	Role            string `json:"role"`
	CreatedAt       string `json:"created_at"`
}

// HandleListUsers returns registered users.
//
// HTTP: GET /api/admin/users (admin)
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{
			ID:              u.ID,
			Email:           u.Email,
			Nickname:        u.Nickname,
			ProfileImageURL: u.ProfileImageURL,
			Role:            u.Role.Code(),
			CreatedAt:       u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleChangeRole sets a user's role. Changing your own role returns 403.
//
// HTTP: PUT /api/admin/users/{id}/role (admin)
func (h *AdminHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not signed in"))
		return
	}

	var in struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	role, err := model.ParseRoleCode(in.Role)
	if err != nil {
		writeError(w, apperror.ValidationFailed("role", "must be a known role code"))
		return
	}

	if err := h.admin.ChangeRole(r.Context(), principal.UserID, chi.URLParam(r, "id"), role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": role.Code()})
}

// HandleDeleteUser removes an account. Deleting yourself returns 403.
//
// HTTP: DELETE /api/admin/users/{id} (admin)
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not signed in"))
		return
	}

	if err := h.admin.DeleteUser(r.Context(), principal.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
