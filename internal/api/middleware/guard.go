// Package middleware holds the gateway's navigation guards. Both guards
// are re-evaluated on every request: the session can change between
// navigations.
package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/audiotheca/gateway/internal/api/metrics"
)

// Session exposes the read side of the session manager the guards need.
type Session interface {
	Token() string
	EffectiveRole() string
}

// RequireSession renders the protected target only when a credential is
// held. Otherwise it redirects to the login entry point, carrying the
// intended destination so a successful login can return there.
func RequireSession(s Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.Token() == "" {
				metrics.GuardRedirectsTotal.WithLabelValues("auth").Inc()
				target := "/login?from=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusFound, target)
			}
			return next(c)
		}
	}
}

// RequireRole renders the protected target only when the effective role
// (the identity's role, or "guest" without one) is in the allow-set. A
// logged-in user with the wrong role is not unauthenticated, so the
// redirect goes to the default landing location rather than to login.
func RequireRole(s Session, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[s.EffectiveRole()]; !ok {
				metrics.GuardRedirectsTotal.WithLabelValues("role").Inc()
				return c.Redirect(http.StatusFound, "/")
			}
			return next(c)
		}
	}
}
