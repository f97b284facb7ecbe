package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/repository"
	"github.com/brightreel/video-crm/api/internal/service"
)

// LeadsHandler exposes lead capture and management endpoints.
type LeadsHandler struct {
	leads *service.LeadsService
}

// NewLeadsHandler creates a new handler instance.
func NewLeadsHandler(leads *service.LeadsService) *LeadsHandler {
	return &LeadsHandler{leads: leads}
}

// Capture handles POST /leads requests from the marketing site.
func (h *LeadsHandler) Capture(c echo.Context) error {
	var req dto.CaptureLeadRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	lead, err := h.leads.Capture(c.Request().Context(), req)
	if err != nil {
		var validationErr service.LeadValidationError
		if errors.As(err, &validationErr) {
			return Error(c, http.StatusBadRequest, validationErr.Message)
		}
		return Error(c, http.StatusInternalServerError, "failed to create lead")
	}

	return Success(c, http.StatusCreated, "lead captured", lead)
}

// List handles GET /leads requests.
func (h *LeadsHandler) List(c echo.Context) error {
	filter := dto.LeadListFilter{
		Status: strings.TrimSpace(c.QueryParam("status")),
		Source: strings.TrimSpace(c.QueryParam("source")),
		Limit:  parseIntDefault(c.QueryParam("limit"), 50),
		Offset: parseIntDefault(c.QueryParam("offset"), 0),
	}

	if qualifiedStr := strings.TrimSpace(c.QueryParam("qualified")); qualifiedStr != "" {
		qualified := qualifiedStr == "true"
		filter.Qualified = &qualified
	}

	resp, err := h.leads.List(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list leads")
	}

	return Success(c, http.StatusOK, "leads retrieved", resp)
}

// Get handles GET /leads/:id requests.
func (h *LeadsHandler) Get(c echo.Context) error {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	lead, conversations, err := h.leads.Get(c.Request().Context(), leadID)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to fetch lead")
	}

	return Success(c, http.StatusOK, "lead retrieved", map[string]any{
		"lead":          lead,
		"conversations": conversations,
	})
}

// UpdateStatus handles PATCH /leads/:id/status requests: the explicit
// lifecycle change path outside the scoring engine.
func (h *LeadsHandler) UpdateStatus(c echo.Context) error {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	var req dto.UpdateLeadStatusRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	lead, err := h.leads.UpdateStatus(c.Request().Context(), leadID, req.Status)
	if err != nil {
		var validationErr service.LeadValidationError
		switch {
		case errors.As(err, &validationErr):
			return Error(c, http.StatusBadRequest, validationErr.Message)
		case errors.Is(err, repository.ErrLeadNotFound):
			return Error(c, http.StatusNotFound, "lead not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to update lead status")
		}
	}

	return Success(c, http.StatusOK, "lead status updated", lead)
}

// HighValue handles GET /admin/leads/high-value requests.
func (h *LeadsHandler) HighValue(c echo.Context) error {
	minScore := parseIntDefault(c.QueryParam("minScore"), 60)

	leads, err := h.leads.HighValue(c.Request().Context(), minScore)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list high value leads")
	}

	return Success(c, http.StatusOK, "high value leads retrieved", leads)
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
