package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List handles GET /v1/clients. Client users only see their own client.
//
// @Summary      List clients with project counters
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Client
// @Failure      503  {object}  errorResponse
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.service.List(c.Request().Context(), scopeOf(c))
	if err != nil {
		return err
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return c.JSON(http.StatusOK, clients)
}

// Get handles GET /v1/clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Client id"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.service.Get(c.Request().Context(), scopeOf(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Create handles POST /v1/admin/clients. When pm is given the client PM is
// created after the client; if that fails the client stays and 502 reports
// the partial write.
//
// @Summary      Create a client
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clientRequest  true  "Client with an optional initial PM"
// @Success      201   {object}  domain.Client
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/admin/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req clientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.PM != nil {
		if err := c.Validate(req.PM); err != nil {
			return err
		}
	}
	client, err := h.service.Create(c.Request().Context(), toClientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Update handles PUT /v1/admin/clients/:id.
//
// @Summary      Update a client
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Client id"
// @Param        body  body      clientRequest  true  "Fields to change"
// @Success      200   {object}  domain.Client
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req clientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	client, err := h.service.Update(c.Request().Context(), id, toClientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Delete handles DELETE /v1/admin/clients/:id.
//
// @Summary      Delete a client
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Client id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
