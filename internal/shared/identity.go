// Package shared holds cross-module types for the storefront API.
package shared

// Role values stored on user rows and embedded in tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated caller, decoded from a verified token.
// It is threaded explicitly into service calls rather than read from
// ambient request state.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
