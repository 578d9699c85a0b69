package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

type TeamHandler struct {
	service ports.TeamService
}

func NewTeamHandler(service ports.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// TeamLeads handles GET /v1/team-leads.
//
// @Summary      List team leads
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Member
// @Router       /v1/team-leads [get]
func (h *TeamHandler) TeamLeads(c echo.Context) error {
	members, err := h.service.ListTeamLeads(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(members))
}

// ClientPMs handles GET /v1/admin/client-pms.
//
// @Summary      List client project managers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     int  false  "Client filter"
// @Success      200       {array}   domain.Member
// @Router       /v1/admin/client-pms [get]
func (h *TeamHandler) ClientPMs(c echo.Context) error {
	clientID, err := queryID(c, "clientId")
	if err != nil {
		return err
	}
	members, err := h.service.ListClientPMs(c.Request().Context(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(members))
}

// CreateTeamLead handles POST /v1/admin/team-leads.
//
// @Summary      Create a team lead
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      memberRequest  true  "Team lead"
// @Success      201   {object}  domain.Member
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/team-leads [post]
func (h *TeamHandler) CreateTeamLead(c echo.Context) error {
	var req memberRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	m, err := h.service.CreateTeamLead(c.Request().Context(), toMemberInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// CreateClientPM handles POST /v1/admin/client-pms.
//
// @Summary      Create a client project manager
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      memberRequest  true  "Client PM, clientId required"
// @Success      201   {object}  domain.Member
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/client-pms [post]
func (h *TeamHandler) CreateClientPM(c echo.Context) error {
	var req memberRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	m, err := h.service.CreateClientPM(c.Request().Context(), toMemberInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// DeleteUser handles DELETE /v1/admin/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id} [delete]
func (h *TeamHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func nonNil(m []domain.Member) []domain.Member {
	if m == nil {
		return []domain.Member{}
	}
	return m
}
