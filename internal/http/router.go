package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studyplan-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplan-backend/internal/http/middleware"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	PlanHandler     *httpH.PlanHandler
	ProgressHandler *httpH.ProgressHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	if cfg.AuthHandler != nil {
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	}

	// Plans
	if cfg.PlanHandler != nil {
		protected.POST("/plans/generate", cfg.PlanHandler.Generate)
		protected.GET("/plans", cfg.PlanHandler.List)
		protected.GET("/plans/:id", cfg.PlanHandler.Get)
		protected.POST("/plans/:id/toggle", cfg.PlanHandler.Toggle)
		protected.DELETE("/plans/:id", cfg.PlanHandler.Delete)
	}

	// Progress
	if cfg.ProgressHandler != nil {
		protected.GET("/progress", cfg.ProgressHandler.Overview)
	}

	return r
}
