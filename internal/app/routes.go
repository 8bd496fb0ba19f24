package app

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aiwlulu/BookEasy/internal/auth"
	"github.com/aiwlulu/BookEasy/internal/hotels"
)

// hotelCountsCacheTTL bounds how stale the landing-page aggregation counts
// may get; mutations also invalidate eagerly.
const hotelCountsCacheTTL = 5 * time.Minute

// RegisterRoutes sets up all application routes. It wires each package's
// repository, service, and handler, and delegates to the package's route
// registration function.
//
// This is the single place where all routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// Health check endpoint for Docker health monitoring.
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Auth ---
	codec := auth.NewTokenCodec([]byte(a.Config.Auth.SecretKey), a.Config.Auth.TokenTTL)
	authRepo := auth.NewAccountRepository(a.DB)
	authService := auth.NewAuthService(authRepo, codec)
	authHandler := auth.NewHandler(authService, a.Config.Auth.TokenTTL)
	auth.RegisterRoutes(e, authHandler)

	// --- Hotels ---
	hotelRepo := hotels.NewHotelRepository(a.DB)
	hotelService := hotels.NewHotelService(hotelRepo, a.Redis, hotelCountsCacheTTL)
	hotelHandler := hotels.NewHandler(hotelService)
	hotels.RegisterRoutes(e, hotelHandler, auth.RequireAdmin(authService))
}
