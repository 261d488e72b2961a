package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/service"
)

// GuestbookHandler exposes the microsite guestbook. No account is involved;
// a per-entry password authorizes edits.
type GuestbookHandler struct {
	guestbook *service.GuestbookService
	logger    *slog.Logger
}

func NewGuestbookHandler(guestbook *service.GuestbookService, logger *slog.Logger) *GuestbookHandler {
	return &GuestbookHandler{guestbook: guestbook, logger: logger}
}

// HandleList returns entries, newest first.
//
// HTTP: GET /api/guestbook
func (h *GuestbookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.guestbook.List(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []model.GuestbookEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleCreate adds an entry.
//
// HTTP: POST /api/guestbook
func (h *GuestbookHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.GuestbookInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.guestbook.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleUpdate rewrites an entry's message, given its password.
//
// HTTP: PUT /api/guestbook/{id}
func (h *GuestbookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
		Message  string `json:"message"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.guestbook.Update(r.Context(), chi.URLParam(r, "id"), in.Password, in.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleDelete removes an entry, given its password. The password travels in
// the body, not the URL, so it never lands in access logs.
//
// HTTP: POST /api/guestbook/{id}/delete
func (h *GuestbookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	if err := h.guestbook.Delete(r.Context(), chi.URLParam(r, "id"), in.Password); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
