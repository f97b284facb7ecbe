package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/brightreel/video-crm/api/internal/repository"
	"github.com/brightreel/video-crm/api/internal/service"
	"github.com/brightreel/video-crm/api/internal/service/scoring"
)

// LeadScoreHandler exposes the single-lead scoring endpoints. The score
// responses use the exact shapes the admin UI hooks were written against,
// not the generic envelope.
type LeadScoreHandler struct {
	scores *service.LeadScoreService
}

// NewLeadScoreHandler creates a new handler instance.
func NewLeadScoreHandler(scores *service.LeadScoreService) *LeadScoreHandler {
	return &LeadScoreHandler{scores: scores}
}

// Get handles GET /leads/:id/score requests. Read-only.
func (h *LeadScoreHandler) Get(c echo.Context) error {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	resp, err := h.scores.GetScore(c.Request().Context(), leadID)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to fetch lead score")
	}

	return c.JSON(http.StatusOK, resp)
}

// Update handles POST (and PUT) /leads/:id/score requests: recompute and
// persist the score.
func (h *LeadScoreHandler) Update(c echo.Context) error {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid lead id")
	}

	resp, err := h.scores.UpdateScore(c.Request().Context(), leadID)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return Error(c, http.StatusNotFound, "lead not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to update lead score")
	}

	return c.JSON(http.StatusOK, resp)
}

// Estimate handles POST /leads/score/estimate: the advisory form-time score.
// Public, unauthenticated, and never persisted.
func (h *LeadScoreHandler) Estimate(c echo.Context) error {
	var input scoring.FormInput
	if err := c.Bind(&input); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	result := scoring.Estimate(input, h.scores.Config())
	return Success(c, http.StatusOK, "score estimated", result)
}
