package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aiwlulu/BookEasy/internal/middleware"
)

// RegisterRoutes sets up all auth routes on the given Echo instance. Auth
// routes are public (no session required) -- RequireAuth/RequireAdmin are
// exported separately for other packages to apply to their route groups.
//
// POST endpoints are rate-limited to slow down brute-force and credential
// stuffing: 10 attempts per IP per minute for login, 5 for register.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/auth")

	g.POST("/register", h.Register, middleware.RateLimit(5, time.Minute))
	g.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	g.POST("/logout", h.Logout)
	g.GET("/verify", h.Verify)
}
