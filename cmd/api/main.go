package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/brightreel/video-crm/api/internal/auth"
	"github.com/brightreel/video-crm/api/internal/config"
	"github.com/brightreel/video-crm/api/internal/database"
	"github.com/brightreel/video-crm/api/internal/handler"
	middlewarepkg "github.com/brightreel/video-crm/api/internal/middleware"
	"github.com/brightreel/video-crm/api/internal/repository"
	"github.com/brightreel/video-crm/api/internal/router"
	"github.com/brightreel/video-crm/api/internal/service"
	"github.com/brightreel/video-crm/api/internal/service/scoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	leadsRepo := repository.NewPGXLeadsRepository(pool)

	validator := service.NewContactValidator(cfg.DefaultPhoneRegion)
	authService := service.NewAuthService(usersRepo, tokens, validator)
	usersService := service.NewUsersService(usersRepo, validator)
	leadsService := service.NewLeadsService(leadsRepo, validator)
	scoreService := service.NewLeadScoreService(leadsRepo, scoring.DefaultConfiguration(), cfg.ScoreStaleAfter)
	batchService := service.NewBatchScoreService(leadsRepo, scoreService, cfg.BatchWorkers)

	handlers := router.Handlers{
		Auth:                handler.NewAuthHandler(authService),
		Users:               handler.NewUsersHandler(usersService),
		Leads:               handler.NewLeadsHandler(leadsService),
		LeadScore:           handler.NewLeadScoreHandler(scoreService),
		BatchScore:          handler.NewBatchScoreHandler(batchService),
		ConversationWebhook: handler.NewConversationWebhookHandler(leadsService, scoreService, cfg.WorkerAudience),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, tokens, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
