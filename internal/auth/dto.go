package auth

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=190"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=190"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// AuthResponse pairs the sanitized user with a freshly issued token.
type AuthResponse struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}
