package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/audiotheca/gateway/internal/api/metrics"
	"github.com/audiotheca/gateway/internal/core/ports"
)

type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	// Role travels in the upstream vocabulary; the identity that comes
	// back is already normalized.
	Role string `json:"role" validate:"omitempty,oneof=user producer admin"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// Login exchanges credentials for a session.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.Session
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.sessions.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		metrics.SessionOpsTotal.WithLabelValues("login", "error").Inc()
		return err
	}
	metrics.SessionOpsTotal.WithLabelValues("login", "ok").Inc()
	return c.JSON(http.StatusOK, h.sessions.Snapshot())
}

// Register creates an account and opens a session with the returned
// credential.
//
// @Summary      Register
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  domain.Session
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.sessions.Register(c.Request().Context(), req.Username, req.Email, req.Password, req.Role); err != nil {
		metrics.SessionOpsTotal.WithLabelValues("register", "error").Inc()
		return err
	}
	metrics.SessionOpsTotal.WithLabelValues("register", "ok").Inc()
	return c.JSON(http.StatusCreated, h.sessions.Snapshot())
}

// Logout ends the session. It always succeeds locally even when the
// upstream notification fails.
//
// @Summary      Log out
// @Tags         session
// @Success      204
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	metrics.SessionOpsTotal.WithLabelValues("logout", "ok").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Get returns the current session snapshot. With ?refresh=1 the
// credential is re-validated against the upstream first; a rejected
// credential degrades silently to a logged-out snapshot.
//
// @Summary      Session snapshot
// @Tags         session
// @Produce      json
// @Param        refresh  query     string  false  "Re-validate the credential first"
// @Success      200      {object}  domain.Session
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	if c.QueryParam("refresh") == "1" {
		h.sessions.RefreshIdentity(c.Request().Context())
		metrics.SessionOpsTotal.WithLabelValues("refresh", "ok").Inc()
	}
	return c.JSON(http.StatusOK, h.sessions.Snapshot())
}

// ChangePassword forwards a password change. Failure propagates to the
// caller; the session itself is unaffected.
//
// @Summary      Change password
// @Tags         session
// @Accept       json
// @Param        body  body  changePasswordRequest  true  "Old and new password"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /session/change-password [post]
func (h *SessionHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.sessions.ChangePassword(c.Request().Context(), req.OldPassword, req.NewPassword); err != nil {
		metrics.SessionOpsTotal.WithLabelValues("change_password", "error").Inc()
		return err
	}
	metrics.SessionOpsTotal.WithLabelValues("change_password", "ok").Inc()
	return c.NoContent(http.StatusNoContent)
}
