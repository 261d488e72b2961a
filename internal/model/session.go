package model

import "time"

// Session is the client-held projection of an authenticated user's public
// profile. It is what the login flow persists locally and what the auth
// context exposes to pages. The type has no password hash field, so a
// persisted session can never leak one.
type Session struct {
	UserID          string    `json:"id"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL string    `json:"profile_image_url"`
	Role            Role      `json:"role"`
	LoggedInAt      time.Time `json:"loggedInAt"`
}

// NewSession builds the session projection for a user at login time.
func NewSession(u *User, now time.Time) *Session {
	return &Session{
		UserID:          u.ID,
		Email:           u.Email,
		Nickname:        u.Nickname,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		LoggedInAt:      now,
	}
}
