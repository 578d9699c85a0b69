package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

// ProjectHandler handles HTTP requests for projects, their RFIs and packages.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List handles GET /v1/projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Status, legacy values accepted"
// @Param        search      query     string  false  "Matches name, projectNo or solProjectNo"
// @Param        clientId    query     int     false  "Client filter"
// @Param        teamLeadId  query     int     false  "Team lead filter"
// @Success      200         {array}   domain.Project
// @Failure      422         {object}  errorResponse
// @Failure      503         {object}  errorResponse
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	clientID, err := queryID(c, "clientId")
	if err != nil {
		return err
	}
	teamLeadID, err := queryID(c, "teamLeadId")
	if err != nil {
		return err
	}

	projects, err := h.service.List(c.Request().Context(), ports.ListProjectsInput{
		Scope:      scopeOf(c),
		Status:     c.QueryParam("status"),
		Search:     c.QueryParam("search"),
		ClientID:   clientID,
		TeamLeadID: teamLeadID,
	})
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return c.JSON(http.StatusOK, projects)
}

// Get handles GET /v1/projects/:id.
//
// @Summary      Project with its RFIs and packages
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Project id"
// @Success      200  {object}  projectDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.service.Detail(c.Request().Context(), scopeOf(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDetailResponse(d))
}

// Create handles POST /v1/admin/projects.
//
// @Summary      Create a project
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      projectRequest  true  "Project"
// @Success      201   {object}  domain.Project
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.Create(c.Request().Context(), toProjectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /v1/admin/projects/:id. Omitted fields are kept.
//
// @Summary      Update a project
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Project id"
// @Param        body  body      projectRequest  true  "Fields to change"
// @Success      200   {object}  domain.Project
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.Update(c.Request().Context(), id, toProjectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// AssignTeamLead handles PUT /v1/admin/projects/:id/team-lead.
//
// @Summary      Assign or clear the team lead
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Project id"
// @Param        body  body      teamLeadRequest  true  "Team lead, null to clear"
// @Success      200   {object}  domain.Project
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/projects/{id}/team-lead [put]
func (h *ProjectHandler) AssignTeamLead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req teamLeadRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.AssignTeamLead(c.Request().Context(), id, req.TeamLeadID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/admin/projects/:id.
//
// @Summary      Delete a project with its packages and RFIs
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Project id"
// @Success      204
// @Failure      502  {object}  errorResponse  "Some rows were already deleted"
// @Router       /v1/admin/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddRFI handles POST /v1/admin/projects/:id/rfis.
//
// @Summary      Raise an RFI
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int         true  "Project id"
// @Param        body  body      rfiRequest  true  "RFI"
// @Success      201   {object}  domain.RFI
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/projects/{id}/rfis [post]
func (h *ProjectHandler) AddRFI(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req rfiRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	r, err := h.service.AddRFI(c.Request().Context(), id, toRFIInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// AddPackage handles POST /v1/admin/projects/:id/packages.
//
// @Summary      Submit a package
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Project id"
// @Param        body  body      packageRequest  true  "Package"
// @Success      201   {object}  domain.Package
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/projects/{id}/packages [post]
func (h *ProjectHandler) AddPackage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req packageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.AddPackage(c.Request().Context(), id, toPackageInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}
