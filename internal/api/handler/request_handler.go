package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cra-adv/cra-backend/internal/api/middleware"
	"github.com/cra-adv/cra-backend/internal/core/ports"
)

// RequestHandler exposes legal-request operations under /api/solicitacoes.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

type createRequestRequest struct {
	CorrespondentID *int64 `json:"correspondenteId"`
	Subject         string `json:"assunto" validate:"required"`
	Observation     string `json:"observacao"`
}

// List handles GET /api/solicitacoes.
//
// @Summary      List legal requests
// @Tags         solicitacoes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Request
// @Router       /solicitacoes [get]
func (h *RequestHandler) List(c echo.Context) error {
	requests, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

// Get handles GET /api/solicitacoes/:id.
//
// @Summary      Get a legal request by id
// @Tags         solicitacoes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Request id"
// @Success      200  {object}  domain.Request
// @Failure      404  {object}  map[string]string
// @Router       /solicitacoes/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	request, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, request)
}

// Create handles POST /api/solicitacoes. The request is opened on behalf of
// the authenticated user.
//
// @Summary      Open a legal request
// @Tags         solicitacoes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Request"
// @Success      201   {object}  domain.Request
// @Failure      400   {object}  map[string]string
// @Router       /solicitacoes [post]
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := middleware.AuthenticatedUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateRequestInput{
		UserID:          user.ID,
		CorrespondentID: req.CorrespondentID,
		Subject:         req.Subject,
		Observation:     req.Observation,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// SetStatus handles PUT /api/solicitacoes/:id/status/:nome. The service
// rejects changes to concluded requests unless the caller is an admin or a
// lawyer; the caller's roles come from the authenticated request context.
//
// @Summary      Change a legal request's status
// @Tags         solicitacoes
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int     true  "Request id"
// @Param        nome  path      string  true  "New status name"
// @Success      200   {object}  domain.Request
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /solicitacoes/{id}/status/{nome} [put]
func (h *RequestHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	updated, err := h.service.SetStatus(c.Request().Context(), id, c.Param("nome"), middleware.AuthenticatedRoles(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
