package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/steelvault/project-dashboard/internal/api/middleware"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns the session token.
//
// @Summary      Login
// @Description  Replaces the session of the profile named by a valid bearer token and mints a new profile otherwise.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	// Only a verified token may name the profile whose session is replaced.
	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Profile:  middleware.ProfileFrom(c),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: res.Token, Profile: res.Profile, User: res.Session})
}

// Logout clears the session of the profile in the bearer token. Logging out
// without a session succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      503  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.ProfileFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session reports the signed-in user.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  middleware.Denial
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	state, s := h.authService.State(c.Request().Context(), middleware.ProfileFrom(c))
	return c.JSON(http.StatusOK, sessionResponse{State: state.String(), User: s})
}
