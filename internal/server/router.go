package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sparklab/ideahub-backend/internal/http/handlers"
	"github.com/sparklab/ideahub-backend/internal/http/middleware"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/types"
)

type RouterConfig struct {
	Log            *logger.Logger
	CORSOrigins    []string
	TracingEnabled bool

	AuthHandler    *handlers.AuthHandler
	StudentHandler *handlers.StudentHandler
	StaffHandler   *handlers.StaffHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("ideahub-backend"))
	}
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/logout", cfg.AuthHandler.Logout)
	}

	student := api.Group("/student")
	student.Use(cfg.AuthMiddleware.RequireRole(types.RoleStudent))
	{
		student.POST("/generate-idea", cfg.StudentHandler.GenerateIdea)
		student.POST("/submit-idea", cfg.StudentHandler.SubmitIdea)
		student.GET("/ideas", cfg.StudentHandler.ListIdeas)
	}

	staff := api.Group("/staff")
	staff.Use(cfg.AuthMiddleware.RequireRole(types.RoleStaff))
	{
		staff.GET("/ideas", cfg.StaffHandler.ListIdeas)
		staff.POST("/check-similarity", cfg.StaffHandler.CheckSimilarity)
		staff.POST("/similarity-details", cfg.StaffHandler.SimilarityDetails)
		staff.POST("/review-idea", cfg.StaffHandler.ReviewIdea)
	}

	return router
}
