package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cra-adv/cra-backend/internal/api/metrics"
	"github.com/cra-adv/cra-backend/internal/core/domain"
	"github.com/cra-adv/cra-backend/internal/core/ports"
	"github.com/cra-adv/cra-backend/internal/core/token"
)

const (
	defaultAccessTTL  = 24 * time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// AuthService orchestrates login, registration and refresh-token rotation.
type AuthService struct {
	users          ports.UserRepository
	correspondents ports.CorrespondentRepository
	codec          *token.Codec
	hasher         *PasswordHasher
	accessTTL      time.Duration
	refreshTTL     time.Duration
	log            zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	correspondents ports.CorrespondentRepository,
	codec *token.Codec,
	hasher *PasswordHasher,
	accessTTL, refreshTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &AuthService{
		users:          users,
		correspondents: correspondents,
		codec:          codec,
		hasher:         hasher,
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
		log:            log,
	}
}

// Login verifies the credentials and mints a fresh session pair. Unknown
// login, wrong password and inactive account all surface as
// domain.ErrBadCredentials so the caller cannot tell which check failed.
func (s *AuthService) Login(ctx context.Context, login, password string) (*ports.SessionPair, error) {
	if login == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if err == domain.ErrUserNotFound {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrBadCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.Active || !s.hasher.Matches(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrBadCredentials
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("login", user.Login).Msg("user authenticated")
	return pair, nil
}

// Register creates a new user account and returns its first session pair.
// Only admins reach this method; the authorization gate enforces that.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.SessionPair, error) {
	exists, err := s.users.ExistsByLogin(ctx, input.Login)
	if err != nil {
		return nil, fmt.Errorf("check login: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateLogin
	}

	// A correspondent-type user may link to an existing correspondent
	// entity; the link must resolve before anything is persisted.
	if input.Type == domain.TypeCorrespondent && input.CorrespondentID != nil {
		if _, err := s.correspondents.FindByID(ctx, *input.CorrespondentID); err != nil {
			if err == domain.ErrUnknownCorrespondent {
				return nil, domain.ErrUnknownCorrespondent
			}
			return nil, fmt.Errorf("find correspondent: %w", err)
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Login:           input.Login,
		PasswordHash:    hash,
		FullName:        input.FullName,
		PrimaryEmail:    input.PrimaryEmail,
		Type:            input.Type,
		Active:          true,
		CorrespondentID: input.CorrespondentID,
		CreatedAt:       time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.mintPair(created)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()
	s.log.Info().Str("login", created.Login).Int("tipo", created.Type).Msg("user registered")
	return pair, nil
}

// Refresh exchanges a valid refresh token for a brand-new session pair. The
// old refresh token is not revoked — the service is stateless by design —
// rotation plus its remaining lifetime is the only mitigation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.SessionPair, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	isRefresh, err := s.codec.IsRefresh(refreshToken)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	if !isRefresh {
		metrics.RefreshesTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrNotRefreshToken
	}

	user, err := s.users.FindByLogin(ctx, claims.Subject)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("failure").Inc()
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		metrics.RefreshesTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInactiveUser
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return nil, err
	}

	metrics.RefreshesTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("login", user.Login).Msg("token refreshed")
	return pair, nil
}

// CurrentUser reloads the identity behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, login string) (*domain.User, error) {
	return s.users.FindByLogin(ctx, login)
}

// mintPair issues an access and a refresh token for user. Roles are never
// embedded in the claims: they are recomputed from the stored user type at
// every verification, so a stale token cannot carry an outdated role.
func (s *AuthService) mintPair(user *domain.User) (*ports.SessionPair, error) {
	access, err := s.codec.Mint(user.Login, token.KindAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}
	refresh, err := s.codec.Mint(user.Login, token.KindRefresh, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}
	expiresAt, err := s.codec.ExpiresAt(access)
	if err != nil {
		return nil, err
	}

	return &ports.SessionPair{
		Token:        access,
		RefreshToken: refresh,
		User:         user,
		Roles:        user.Roles(),
		ExpiresAt:    expiresAt,
	}, nil
}
