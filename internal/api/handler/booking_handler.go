package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BookingHandler is a placeholder for the booking module. Authenticated
// customers and admins can reach it; the domain logic lives elsewhere.
type BookingHandler struct{}

func NewBookingHandler() *BookingHandler {
	return &BookingHandler{}
}

// List handles GET /api/bookings.
func (h *BookingHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Bookings endpoint - coming soon",
	})
}
