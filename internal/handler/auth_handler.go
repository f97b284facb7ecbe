package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/repository"
	"github.com/brightreel/video-crm/api/internal/service"
)

// AuthHandler exposes sign-up and sign-in for the back-office UI.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /auth/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		var validation service.AccountValidationError
		switch {
		case errors.As(err, &validation):
			return Error(c, http.StatusBadRequest, validation.Message)
		case errors.Is(err, repository.ErrEmailTaken):
			return Error(c, http.StatusConflict, "email already in use")
		default:
			return Error(c, http.StatusInternalServerError, "unable to register")
		}
	}

	return Success(c, http.StatusCreated, "registration successful", resp)
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, http.StatusInternalServerError, "unable to authenticate")
	}

	return Success(c, http.StatusOK, "login successful", resp)
}
