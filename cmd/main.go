package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/sparklab/ideahub-backend/internal/clients/gemini"
	redisclient "github.com/sparklab/ideahub-backend/internal/clients/redis"
	"github.com/sparklab/ideahub-backend/internal/config"
	"github.com/sparklab/ideahub-backend/internal/db"
	"github.com/sparklab/ideahub-backend/internal/http/handlers"
	"github.com/sparklab/ideahub-backend/internal/http/middleware"
	"github.com/sparklab/ideahub-backend/internal/observability"
	"github.com/sparklab/ideahub-backend/internal/platform/envutil"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/repos"
	"github.com/sparklab/ideahub-backend/internal/server"
	"github.com/sparklab/ideahub-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Tracing
	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "ideahub-backend",
		Environment: cfg.Server.Mode,
	})

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	ideaRepo := repos.NewIdeaRepo(thePG, log)
	feedbackRepo := repos.NewFeedbackRepo(thePG, log)

	// Clients
	geminiClient, err := gemini.NewClient(log, time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second)
	if err != nil {
		log.Fatal("Could not init Gemini client", "error", err)
	}
	limiter, err := redisclient.NewRateLimiter(log, cfg.RateLimit.GeneratePerMinute, time.Minute)
	if err != nil {
		log.Warn("Rate limiter disabled", "error", err)
		limiter = nil
	}

	// Services
	log.Info("Setting up services...")
	jwtSecret := envutil.String("JWT_SECRET", "")
	tokenService := services.NewTokenService(log, jwtSecret)
	authService := services.NewAuthService(thePG, log, userRepo, tokenService)
	generationService := services.NewGenerationService(log, geminiClient, cfg.Gemini.Model)
	similarityService := services.NewSimilarityService(log, ideaRepo, geminiClient, cfg.Gemini.Model, cfg.Gemini.RankingModel)
	ideaService := services.NewIdeaService(thePG, log, ideaRepo, userRepo, feedbackRepo, similarityService)

	// Handlers + middleware
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(log, authService)
	studentHandler := handlers.NewStudentHandler(log, generationService, ideaService, limiter)
	staffHandler := handlers.NewStaffHandler(log, ideaService, similarityService)
	authMiddleware := middleware.NewAuthMiddleware(log, tokenService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		CORSOrigins:    cfg.CORS.Origins,
		TracingEnabled: observability.Enabled(),
		AuthHandler:    authHandler,
		StudentHandler: studentHandler,
		StaffHandler:   staffHandler,
		AuthMiddleware: authMiddleware,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sig:
			log.Info("Shutting down", "signal", s.String())
		case <-gctx.Done():
			return gctx.Err()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if otelShutdown != nil {
			_ = otelShutdown(shutdownCtx)
		}
		if limiter != nil {
			_ = limiter.Close()
		}
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("Server failed", "error", err)
	}
}
