package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/audiotheca/gateway/internal/api/handler"
	"github.com/audiotheca/gateway/internal/api/middleware"
	"github.com/audiotheca/gateway/internal/core/domain"
	"github.com/audiotheca/gateway/internal/core/ports"
	"github.com/audiotheca/gateway/internal/core/service"
	"github.com/audiotheca/gateway/internal/infrastructure/upstream"
)

// NewRouter builds the Echo instance with every navigation target
// registered behind the guard that gated it in the UI: public catalog
// reads, session-guarded review routes, editor-guarded management
// routes, and admin-guarded user routes.
func NewRouter(sessions ports.SessionService, debouncer *service.Debouncer, up *upstream.Client, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("audiotheca"))

	// --- Dependencies ---
	sessionHandler := handler.NewSessionHandler(sessions)
	searchHandler := handler.NewSearchHandler(debouncer)
	catalog := handler.NewCatalogHandler(up)

	requireSession := middleware.RequireSession(sessions)
	editorOnly := middleware.RequireRole(sessions, domain.RoleEditor)
	adminOnly := middleware.RequireRole(sessions, domain.RoleAdmin)

	// --- Session ---
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/register", sessionHandler.Register)
	e.POST("/session/logout", sessionHandler.Logout)
	e.GET("/session", sessionHandler.Get)
	e.POST("/session/change-password", sessionHandler.ChangePassword, requireSession)
	e.GET("/profile", sessionHandler.Get, requireSession)

	// --- Search ---
	e.GET("/search", searchHandler.Search)

	// --- Public catalog ---
	e.GET("/musical-works", catalog.Relay)
	e.GET("/musical-works/:id", catalog.Relay)
	e.GET("/musical-works/:id/reviews", catalog.Relay)
	e.GET("/artists", catalog.Relay)
	e.GET("/artists/:id", catalog.Relay)
	e.GET("/genres", catalog.Relay)
	e.GET("/genres/:id", catalog.Relay)

	// --- Reviews (authenticated) ---
	e.GET("/reviews", catalog.Relay, requireSession)
	e.POST("/reviews", catalog.Relay, requireSession)
	e.GET("/reviews/:id", catalog.Relay, requireSession)
	e.PUT("/reviews/:id", catalog.Relay, requireSession)
	e.DELETE("/reviews/:id", catalog.Relay, requireSession)

	// --- Moderation and catalog management (editor) ---
	e.GET("/reviews/pending", catalog.Relay, editorOnly)
	e.POST("/reviews/:id/approve", catalog.Relay, editorOnly)
	e.POST("/reviews/:id/reject", catalog.Relay, editorOnly)
	for _, resource := range []string{"/genres", "/artists", "/musical-works"} {
		e.POST(resource, catalog.Relay, editorOnly)
		e.PUT(resource+"/:id", catalog.Relay, editorOnly)
		e.DELETE(resource+"/:id", catalog.Relay, editorOnly)
	}

	// --- User administration (admin) ---
	e.GET("/users", catalog.Relay, adminOnly)
	e.GET("/users/:id", catalog.Relay, adminOnly)
	e.POST("/users/:id/ban", catalog.Relay, adminOnly)
	e.POST("/users/:id/unban", catalog.Relay, adminOnly)
	e.PUT("/users/:id/role", catalog.Relay, adminOnly)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	healthHandler := handler.NewHealthHandler()
	readiness := handler.NewReadinessHandler(up, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readiness.Readiness)

	return e
}
