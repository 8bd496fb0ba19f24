package hotels

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all hotel routes. Reads are public; mutations
// take the admin gate middleware and never reach the handler when the
// gate rejects.
func RegisterRoutes(e *echo.Echo, h *Handler, adminGate echo.MiddlewareFunc) {
	g := e.Group("/hotels")

	// Public reads.
	g.GET("", h.List)
	g.GET("/find/:id", h.Get)
	g.GET("/amountoftype", h.CountByType)
	g.GET("/amountofcities", h.CountByCity)

	// Admin-gated mutations.
	g.POST("", h.Create, adminGate)
	g.PUT("/:id", h.Update, adminGate)
	g.DELETE("/:id", h.Delete, adminGate)
}
