package ports

import (
	"context"
	"time"

	"github.com/cra-adv/cra-backend/internal/core/domain"
)

// RegisterInput carries the fields needed to create a new user account.
type RegisterInput struct {
	Login           string
	Password        string
	FullName        string
	PrimaryEmail    string
	Type            int
	CorrespondentID *int64
}

// SessionPair is the result of every successful session operation: a fresh
// access/refresh token pair plus the resolved identity's public profile.
type SessionPair struct {
	Token        string
	RefreshToken string
	User         *domain.User
	Roles        []string
	ExpiresAt    time.Time
}

// AuthService issues and refreshes sessions and resolves the current user.
type AuthService interface {
	Login(ctx context.Context, login, password string) (*SessionPair, error)
	Register(ctx context.Context, input RegisterInput) (*SessionPair, error)
	Refresh(ctx context.Context, refreshToken string) (*SessionPair, error)
	CurrentUser(ctx context.Context, login string) (*domain.User, error)
}
