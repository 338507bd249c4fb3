package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cra-adv/cra-backend/internal/core/domain"
	"github.com/cra-adv/cra-backend/internal/core/ports"
)

// CorrespondentHandler exposes correspondent lookup under /api/correspondentes.
type CorrespondentHandler struct {
	correspondents ports.CorrespondentRepository
}

func NewCorrespondentHandler(correspondents ports.CorrespondentRepository) *CorrespondentHandler {
	return &CorrespondentHandler{correspondents: correspondents}
}

type createCorrespondentRequest struct {
	Name  string `json:"nome" validate:"required"`
	OAB   string `json:"oab"`
	Type  string `json:"tipo"`
	Email string `json:"emailPrimario" validate:"omitempty,email"`
	Phone string `json:"telefonePrimario"`
}

// List handles GET /api/correspondentes.
//
// @Summary      List correspondents
// @Tags         correspondentes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Correspondent
// @Router       /correspondentes [get]
func (h *CorrespondentHandler) List(c echo.Context) error {
	correspondents, err := h.correspondents.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, correspondents)
}

// Get handles GET /api/correspondentes/:id.
//
// @Summary      Get a correspondent by id
// @Tags         correspondentes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Correspondent id"
// @Success      200  {object}  domain.Correspondent
// @Failure      404  {object}  map[string]string
// @Router       /correspondentes/{id} [get]
func (h *CorrespondentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	correspondent, err := h.correspondents.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, correspondent)
}

// Create handles POST /api/correspondentes.
//
// @Summary      Create a correspondent
// @Tags         correspondentes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCorrespondentRequest  true  "Correspondent"
// @Success      201   {object}  domain.Correspondent
// @Failure      400   {object}  map[string]string
// @Router       /correspondentes [post]
func (h *CorrespondentHandler) Create(c echo.Context) error {
	var req createCorrespondentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.correspondents.Create(c.Request().Context(), &domain.Correspondent{
		Name:      req.Name,
		OAB:       req.OAB,
		Type:      req.Type,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}
