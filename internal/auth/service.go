package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/storefront/internal/platform/httpx"
	"github.com/odyssey-erp/storefront/internal/shared"
	"github.com/odyssey-erp/storefront/internal/token"
)

// Service wraps account registration and credential verification.
type Service struct {
	repo       Repository
	tokens     *token.Service
	bcryptCost int
}

// NewService constructs a new Service. A bcryptCost of zero falls back to
// the standard cost of 12.
func NewService(repo Repository, tokens *token.Service, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	return &Service{repo: repo, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a new account with role "user" and issues a token for
// it. Registration can never create admins.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	// Fast-path check for a friendlier conflict message; the unique index
	// on email remains the correctness guarantee.
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: Email already registered", httpx.ErrDuplicate)
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return nil, fmt.Errorf("auth: check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         shared.RoleUser,
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return nil, fmt.Errorf("%w: Email already registered", httpx.ErrDuplicate)
		}
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("auth: read created user: %w", err)
	}

	return s.respond(created)
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password fail identically so callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, httpx.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, httpx.ErrInvalidCredentials
	}
	return s.respond(user)
}

// Self fetches the caller's own user row. A valid token does not imply the
// row still exists; a row deleted out-of-band yields NotFound.
func (s *Service) Self(ctx context.Context, ident shared.Identity) (*User, error) {
	user, err := s.repo.FindByID(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: User not found", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	return user, nil
}

func (s *Service) respond(user *User) (*AuthResponse, error) {
	signed, err := s.tokens.Issue(token.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user.View(), Token: signed}, nil
}
