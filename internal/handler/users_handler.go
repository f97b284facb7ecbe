package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/repository"
	"github.com/brightreel/video-crm/api/internal/service"
)

// UsersHandler exposes the admin-only account management endpoints.
type UsersHandler struct {
	users *service.UsersService
}

// NewUsersHandler constructs a handler instance.
func NewUsersHandler(users *service.UsersService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List returns all back-office accounts.
func (h *UsersHandler) List(c echo.Context) error {
	records, err := h.users.List(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list users")
	}
	return Success(c, http.StatusOK, "users retrieved", records)
}

// Create provisions an account.
func (h *UsersHandler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.Create(c.Request().Context(), req)
	if err != nil {
		return userError(c, err, "failed to create user")
	}
	return Success(c, http.StatusCreated, "user created", user)
}

// Update patches an account.
func (h *UsersHandler) Update(c echo.Context) error {
	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return userError(c, err, "failed to update user")
	}
	return Success(c, http.StatusOK, "user updated", user)
}

// Delete removes an account.
func (h *UsersHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return userError(c, err, "failed to delete user")
	}
	return Success(c, http.StatusOK, "user deleted", nil)
}

// userError maps account service failures onto the envelope.
func userError(c echo.Context, err error, fallback string) error {
	var validation service.AccountValidationError
	switch {
	case errors.As(err, &validation):
		return Error(c, http.StatusBadRequest, validation.Message)
	case errors.Is(err, service.ErrInvalidUserID):
		return Error(c, http.StatusBadRequest, "invalid user id")
	case errors.Is(err, repository.ErrUserNotFound):
		return Error(c, http.StatusNotFound, "user not found")
	case errors.Is(err, repository.ErrEmailTaken):
		return Error(c, http.StatusConflict, "email already in use")
	default:
		return Error(c, http.StatusInternalServerError, fallback)
	}
}
