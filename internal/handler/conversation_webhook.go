package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"google.golang.org/api/idtoken"

	"github.com/brightreel/video-crm/api/internal/dto"
	middlewarepkg "github.com/brightreel/video-crm/api/internal/middleware"
	"github.com/brightreel/video-crm/api/internal/repository"
	"github.com/brightreel/video-crm/api/internal/service"
)

// TokenValidator verifies OIDC tokens presented by the voice worker.
type TokenValidator interface {
	Validate(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

type googleTokenValidator struct{}

func (googleTokenValidator) Validate(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
	return idtoken.Validate(ctx, token, audience)
}

// ConversationWebhookHandler receives conversation events from the voice
// worker and appends them to the lead's history. The worker runs on Cloud
// Run and authenticates with a Google-signed ID token.
type ConversationWebhookHandler struct {
	leads     *service.LeadsService
	scores    *service.LeadScoreService
	audience  string
	validator TokenValidator
}

// NewConversationWebhookHandler wires the webhook handler. An empty audience
// disables token verification (local development only).
func NewConversationWebhookHandler(leads *service.LeadsService, scores *service.LeadScoreService, audience string) *ConversationWebhookHandler {
	return &ConversationWebhookHandler{
		leads:     leads,
		scores:    scores,
		audience:  strings.TrimSpace(audience),
		validator: googleTokenValidator{},
	}
}

// WithTokenValidator overrides the OIDC validator, for tests.
func (h *ConversationWebhookHandler) WithTokenValidator(validator TokenValidator) *ConversationWebhookHandler {
	h.validator = validator
	return h
}

// Receive handles POST /webhooks/conversations requests.
func (h *ConversationWebhookHandler) Receive(c echo.Context) error {
	if h.audience != "" {
		token, ok := bearerToken(c.Request().Header.Get("Authorization"))
		if !ok {
			return Error(c, http.StatusUnauthorized, "missing bearer token")
		}
		if _, err := h.validator.Validate(c.Request().Context(), token, h.audience); err != nil {
			return Error(c, http.StatusUnauthorized, "invalid worker token")
		}
	}

	var req dto.ConversationWebhookRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.LeadID) == "" {
		return Error(c, http.StatusBadRequest, "lead_id is required")
	}

	conversation, err := h.leads.RecordConversation(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLeadID):
			return Error(c, http.StatusBadRequest, "invalid lead_id")
		case errors.Is(err, repository.ErrLeadNotFound):
			return Error(c, http.StatusNotFound, "lead not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to store conversation")
		}
	}

	// Fresh conversations change engagement and intent signals, so rescore
	// right away. A scoring failure must not make the worker retry the
	// already-stored conversation.
	if _, err := h.scores.UpdateScore(c.Request().Context(), conversation.LeadID); err != nil {
		rid := middlewarepkg.RequestIDFromContext(c)
		log.Printf("request_id=%s lead_id=%s rescore after conversation failed: %v", rid, conversation.LeadID, err)
	}

	return Success(c, http.StatusCreated, "conversation recorded", map[string]any{
		"conversation_id": conversation.ID,
		"lead_id":         conversation.LeadID,
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
