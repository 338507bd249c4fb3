package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cra-adv/cra-backend/internal/api/metrics"
	"github.com/cra-adv/cra-backend/internal/api/middleware"
	"github.com/cra-adv/cra-backend/internal/core/domain"
	"github.com/cra-adv/cra-backend/internal/core/ports"
)

// AuthHandler exposes the session endpoints under /api/auth.
type AuthHandler struct {
	authService ports.AuthService
	limiter     ports.LoginLimiter
	log         zerolog.Logger
}

// NewAuthHandler builds the handler. limiter may be nil, in which case login
// attempts are not throttled.
func NewAuthHandler(authService ports.AuthService, limiter ports.LoginLimiter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter, log: log}
}

// --- Request / Response types ---

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

type registerRequest struct {
	Login           string `json:"login" validate:"required,min=3"`
	Password        string `json:"senha" validate:"required,min=6"`
	FullName        string `json:"nomeCompleto" validate:"required"`
	PrimaryEmail    string `json:"emailPrincipal" validate:"omitempty,email"`
	Type            int    `json:"tipo" validate:"required"`
	CorrespondentID *int64 `json:"correspondenteId"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// jwtResponse mirrors the wire shape the frontend consumes.
type jwtResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Type         string    `json:"type"`
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	FullName     string    `json:"nomeCompleto"`
	PrimaryEmail string    `json:"emailPrincipal"`
	Tipo         int       `json:"tipo"`
	Roles        []string  `json:"roles"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// errorBody is the auth endpoints' error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newJwtResponse(pair *ports.SessionPair) jwtResponse {
	return jwtResponse{
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
		Type:         "Bearer",
		ID:           pair.User.ID,
		Login:        pair.User.Login,
		FullName:     pair.User.FullName,
		PrimaryEmail: pair.User.PrimaryEmail,
		Tipo:         pair.User.Type,
		Roles:        pair.Roles,
		ExpiresAt:    pair.ExpiresAt,
	}
}

// Login authenticates a user and returns a JWT session pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  errorBody
// @Failure      429   {object}  errorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Credenciais inválidas", Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Credenciais inválidas", Message: err.Error()})
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Request().Context(), req.Login)
		if err != nil {
			// Limiter trouble must not lock everyone out.
			h.log.Error().Err(err).Msg("login limiter unavailable")
		} else if !allowed {
			metrics.LoginRateLimitedTotal.Inc()
			return c.JSON(http.StatusTooManyRequests, errorBody{
				Error:   "Muitas tentativas",
				Message: domain.ErrTooManyLoginAttempts.Error(),
			})
		}
	}

	pair, err := h.authService.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Credenciais inválidas", Message: err.Error()})
	}

	if h.limiter != nil {
		if err := h.limiter.Reset(c.Request().Context(), req.Login); err != nil {
			h.log.Warn().Err(err).Msg("login limiter reset failed")
		}
	}
	return c.JSON(http.StatusOK, newJwtResponse(pair))
}

// Register creates a new user account (admin only, enforced by the gate).
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Erro no registro", Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Erro no registro", Message: err.Error()})
	}

	pair, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Login:           req.Login,
		Password:        req.Password,
		FullName:        req.FullName,
		PrimaryEmail:    req.PrimaryEmail,
		Type:            req.Type,
		CorrespondentID: req.CorrespondentID,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Erro no registro", Message: err.Error()})
	}
	return c.JSON(http.StatusOK, newJwtResponse(pair))
}

// Refresh exchanges a refresh token for a new session pair.
//
// @Summary      Refresh the session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  errorBody
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Token inválido", Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Token inválido", Message: err.Error()})
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Token inválido", Message: err.Error()})
	}
	return c.JSON(http.StatusOK, newJwtResponse(pair))
}

// Me returns the profile of the authenticated user.
//
// The lowercase "nomecompleto" key is kept for wire parity with the previous
// deployment of this endpoint.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  errorBody
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.AuthenticatedUser(c)
	if user == nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Usuário não encontrado", Message: domain.ErrUserNotFound.Error()})
	}

	// Reload for fresh data; activation may have flipped since token issue.
	fresh, err := h.authService.CurrentUser(c.Request().Context(), user.Login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, errorBody{Error: "Usuário não encontrado", Message: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"id":             fresh.ID,
		"login":          fresh.Login,
		"nomecompleto":   fresh.FullName,
		"emailPrincipal": fresh.PrimaryEmail,
		"tipo":           fresh.Type,
		"ativo":          fresh.Active,
		"authorities":    fresh.Roles(),
	})
}

// Logout confirms a client-side logout. Sessions are stateless: there is no
// server-side state to clear and no token revocation.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Logout realizado com sucesso"})
}

// Validate reports whether the presented access token authenticates a user.
//
// @Summary      Validate the current token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /auth/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	user := middleware.AuthenticatedUser(c)
	if user == nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"valid":   false,
			"message": domain.ErrInvalidToken.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"valid":       true,
		"user":        user.Login,
		"authorities": user.Roles(),
	})
}
