package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminHandler is a placeholder for the admin dashboard module.
type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// Dashboard handles GET /api/admin.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Admin endpoint - coming soon",
	})
}
