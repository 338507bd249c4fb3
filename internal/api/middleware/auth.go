package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cra-adv/cra-backend/internal/api/metrics"
	"github.com/cra-adv/cra-backend/internal/core/domain"
	"github.com/cra-adv/cra-backend/internal/core/ports"
	"github.com/cra-adv/cra-backend/internal/core/token"
)

// Context keys set by Authenticate and read by the gate and handlers.
const (
	CtxUser  = "auth_user"
	CtxRoles = "auth_roles"
)

// Authenticate validates a bearer token, loads the identity behind it and
// attaches {user, roles} to the request context. It never aborts the request:
// a missing, invalid or expired token, an unknown subject or an inactive user
// all leave the request unauthenticated and defer the rejection to the gate,
// so every failure is answered uniformly downstream.
func Authenticate(codec *token.Codec, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get("Authorization"))
			if raw == "" {
				return next(c)
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				result := "invalid"
				if errors.Is(err, domain.ErrExpiredToken) {
					result = "expired"
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				log.Warn().Err(err).Msg("bearer token rejected")
				return next(c)
			}

			user, err := users.FindByLogin(c.Request().Context(), claims.Subject)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("unknown_user").Inc()
				log.Warn().Str("subject", claims.Subject).Msg("token subject not found")
				return next(c)
			}
			if !user.Active {
				metrics.TokenVerificationsTotal.WithLabelValues("inactive_user").Inc()
				log.Warn().Str("subject", claims.Subject).Msg("token subject is inactive")
				return next(c)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			c.Set(CtxUser, user)
			c.Set(CtxRoles, user.Roles())
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <t>" header.
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthenticatedUser returns the identity attached by Authenticate, or nil.
func AuthenticatedUser(c echo.Context) *domain.User {
	user, _ := c.Get(CtxUser).(*domain.User)
	return user
}

// AuthenticatedRoles returns the roles attached by Authenticate.
func AuthenticatedRoles(c echo.Context) []string {
	roles, _ := c.Get(CtxRoles).([]string)
	return roles
}
