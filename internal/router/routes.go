package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightreel/video-crm/api/internal/auth"
	"github.com/brightreel/video-crm/api/internal/config"
	"github.com/brightreel/video-crm/api/internal/entity"
	"github.com/brightreel/video-crm/api/internal/handler"
	middlewarepkg "github.com/brightreel/video-crm/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth                *handler.AuthHandler
	Users               *handler.UsersHandler
	Leads               *handler.LeadsHandler
	LeadScore           *handler.LeadScoreHandler
	BatchScore          *handler.BatchScoreHandler
	ConversationWebhook *handler.ConversationWebhookHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, tokens *auth.TokenManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	// Public lead capture from the marketing site, plus the advisory
	// form-time estimate it shows before submit.
	e.POST("/leads", handlers.Leads.Capture)
	e.POST("/leads/score/estimate", handlers.LeadScore.Estimate)

	// Voice worker callback, authenticated with its own OIDC token.
	if handlers.ConversationWebhook != nil {
		e.POST("/webhooks/conversations", handlers.ConversationWebhook.Receive)
	}

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(tokens))

	secured.GET("/leads", handlers.Leads.List)
	secured.GET("/leads/:id", handlers.Leads.Get)
	secured.PATCH("/leads/:id/status", handlers.Leads.UpdateStatus)

	secured.GET("/leads/:id/score", handlers.LeadScore.Get)
	secured.POST("/leads/:id/score", handlers.LeadScore.Update)
	secured.PUT("/leads/:id/score", handlers.LeadScore.Update)

	batchLimiter := middlewarepkg.BatchRateLimiter(cfg.RateLimitBatch)
	secured.GET("/leads/score/batch", handlers.BatchScore.Info)
	secured.POST("/leads/score/batch", handlers.BatchScore.Update, batchLimiter)

	admin := secured.Group("/admin", middlewarepkg.RequireRole(entity.RoleAdmin))
	admin.GET("/leads/high-value", handlers.Leads.HighValue)
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
