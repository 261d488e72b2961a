package model

import "time"

// GuestbookEntry is a free-standing microsite guestbook row. Entries may
// carry an optional per-entry password allowing later edit/delete; the
// password is stored hashed and never returned to clients.
type GuestbookEntry struct {
	ID           string    `json:"id"         db:"id"`
	Name         string    `json:"name"       db:"name"`
	Message      string    `json:"message"    db:"message"`
	PasswordHash string    `json:"-"          db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
