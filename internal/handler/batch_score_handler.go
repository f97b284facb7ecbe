package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/service"
)

// BatchScoreHandler exposes the batch scoring endpoints.
type BatchScoreHandler struct {
	batch *service.BatchScoreService
}

// NewBatchScoreHandler creates a new handler instance.
func NewBatchScoreHandler(batch *service.BatchScoreService) *BatchScoreHandler {
	return &BatchScoreHandler{batch: batch}
}

// Info handles GET /leads/score/batch?daysOld=N requests. Read-only. A
// missing or unusable daysOld falls back to the service default, same as the
// body-based variant in Update.
func (h *BatchScoreHandler) Info(c echo.Context) error {
	daysOld := 0
	if raw := strings.TrimSpace(c.QueryParam("daysOld")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			daysOld = parsed
		}
	}

	resp, err := h.batch.BatchInfo(c.Request().Context(), daysOld)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to fetch batch scoring info")
	}

	return c.JSON(http.StatusOK, resp)
}

// Update handles POST /leads/score/batch requests. Per-lead failures are
// reported inside the results; the batch itself always succeeds.
func (h *BatchScoreHandler) Update(c echo.Context) error {
	var req dto.BatchUpdateScoreRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	results, err := h.batch.BatchUpdate(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrBatchTargetsRequired) {
			return Error(c, http.StatusBadRequest, "leadIds or onlyStale is required")
		}
		return Error(c, http.StatusInternalServerError, "failed to run batch score update")
	}

	return c.JSON(http.StatusOK, dto.BatchUpdateScoreResponse{
		Success: true,
		Message: fmt.Sprintf("batch score update completed: %d processed, %d updated", results.Processed, results.Updated),
		Results: *results,
	})
}
