// Package model defines the data structures used throughout the application.
package model

import "time"

// User roles. Admins may moderate products (approve/reject) and delete
// any product; everyone else is a plain "user".
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
//
// We use GitHub OAuth as the identity provider, so the primary external
// identifier is the GitHub user ID (an integer). We still generate our own
// internal string ID (xid) so primary keys aren't tied to a third party's
// numbering scheme.
//
// Username is the public handle (the GitHub login) used in profile URLs
// like /user/{username}. It is refreshed on every sign-in so a renamed
// GitHub account keeps working.
type User struct {
	ID        string    `json:"id"        db:"id"`
	GitHubID  int64     `json:"githubId"  db:"github_id"`  // GitHub's numeric user ID
	Name      string    `json:"name"      db:"name"`       // Display name (may equal the login)
	Username  string    `json:"username"  db:"username"`   // GitHub login, e.g. "sakif"
	Email     string    `json:"email"     db:"email"`      // Primary public email (may be empty)
	AvatarURL string    `json:"avatarUrl" db:"avatar_url"` // Profile picture URL
	Role      string    `json:"role"      db:"role"`       // "user" or "admin"
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user may perform moderation actions.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
