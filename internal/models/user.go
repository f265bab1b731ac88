package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Roles lists every valid role, lowest privilege first.
var Roles = []string{RoleUser, RoleModerator, RoleAdmin}

// User represents a registered account. Accounts created by password
// registration have a PasswordHash; accounts created by OIDC login have a Sub.
type User struct {
	ID           uuid.UUID `json:"id"`
	Sub          string    `json:"sub,omitempty"` // OIDC subject identifier
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Login        string    `json:"login"`
	City         string    `json:"city"`
	Age          int       `json:"age"`
	About        string    `json:"about"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // user, moderator, admin
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user is an admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModerator returns true if the user can review events.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// HasRole returns true if the user's role is one of roles.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// HomePath is the page a user lands on after logging in.
func (u *User) HomePath() string {
	switch u.Role {
	case RoleAdmin:
		return "/admin"
	case RoleModerator:
		return "/moderator"
	default:
		return "/user"
	}
}

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
