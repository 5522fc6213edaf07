package auth

import "time"

// User represents a registered account row.
type User struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// UserView is the sanitized representation returned to clients. The
// password hash is never serialized.
type UserView struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// View returns the sanitized client-facing representation of the user.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
