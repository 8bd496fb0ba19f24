package hotels

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aiwlulu/BookEasy/internal/apperror"
)

// Handler handles HTTP requests for hotel records. Handlers are thin: they
// bind the request, call the service, and render the JSON response.
type Handler struct {
	service HotelService
}

// NewHandler creates a new hotel handler with the given service.
func NewHandler(service HotelService) *Handler {
	return &Handler{service: service}
}

// Create adds a new hotel (POST /hotels, admin only).
func (h *Handler) Create(c echo.Context) error {
	var input HotelInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	hotel, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, hotel)
}

// Get returns a single hotel (GET /hotels/find/:id).
func (h *Handler) Get(c echo.Context) error {
	hotel, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hotel)
}

// List returns hotels matching optional query filters (GET /hotels).
// Supported filters: popular=true|false, type=a,b and city=x,y as
// comma-separated values.
func (h *Handler) List(c echo.Context) error {
	var filter ListFilter

	if p := c.QueryParam("popular"); p != "" {
		popular := p == "true"
		filter.Popular = &popular
	}
	filter.Types = splitCSV(c.QueryParam("type"))
	filter.Cities = splitCSV(c.QueryParam("city"))

	hotels, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	if hotels == nil {
		hotels = []Hotel{}
	}
	return c.JSON(http.StatusOK, hotels)
}

// Update replaces a hotel's fields (PUT /hotels/:id, admin only).
func (h *Handler) Update(c echo.Context) error {
	var input HotelInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	hotel, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, hotel)
}

// Delete removes a hotel (DELETE /hotels/:id, admin only).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "hotel deleted"})
}

// CountByType returns hotel counts per type (GET /hotels/amountoftype).
func (h *Handler) CountByType(c echo.Context) error {
	counts, err := h.service.CountByType(c.Request().Context(), splitCSV(c.QueryParam("type")))
	if err != nil {
		return err
	}

	if counts == nil {
		counts = []TypeCount{}
	}
	return c.JSON(http.StatusOK, counts)
}

// CountByCity returns hotel counts per city (GET /hotels/amountofcities).
func (h *Handler) CountByCity(c echo.Context) error {
	counts, err := h.service.CountByCity(c.Request().Context(), splitCSV(c.QueryParam("city")))
	if err != nil {
		return err
	}

	if counts == nil {
		counts = []CityCount{}
	}
	return c.JSON(http.StatusOK, counts)
}

// splitCSV splits a comma-separated query value into trimmed, non-empty parts.
func splitCSV(value string) []string {
	if value == "" {
		return nil
	}

	var parts []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
