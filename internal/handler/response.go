package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope the admin UI expects on every non-score
// endpoint. The four score endpoints return their bare shapes instead.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a success envelope.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error writes an error envelope.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{
		Status:  "error",
		Message: message,
	})
}
