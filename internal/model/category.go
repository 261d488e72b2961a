package model

import "time"

// Category group names as used by the original code table.
const (
	CategoryGroupPost = "POST"
)

// Category is a code-table row: a numeric code unique within its group, plus
// a display name. Uniqueness of (group, code) is enforced by the database;
// the client-side existence check is advisory only.
type Category struct {
	ID        string    `json:"id"             db:"id"`
	Group     string    `json:"category_group" db:"category_group"`
	Code      int       `json:"code"           db:"code"`
	Name      string    `json:"name"           db:"name"`
	CreatedAt time.Time `json:"created_at"     db:"created_at"`
}
