// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account row.
//
// PasswordHash is never serialized: the only code that reads it is the login
// comparison in the auth service. The `json:"-"` tag keeps it out of every
// API response even if a handler encodes a User directly.
type User struct {
	ID              string    `json:"id"                db:"id"`
	Email           string    `json:"email"             db:"email"`
	PasswordHash    string    `json:"-"                 db:"password_hash"`
	Nickname        string    `json:"nickname"          db:"nickname"`
	ProfileImageURL string    `json:"profile_image_url" db:"profile_image_url"`
	Role            Role      `json:"role"              db:"role"`
	CreatedAt       time.Time `json:"created_at"        db:"created_at"`
}
