package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/http"
	httpH "github.com/yungbote/studyplan-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplan-backend/internal/http/middleware"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Plan     *httpH.PlanHandler
	Progress *httpH.ProgressHandler
}

func wireHandlers(log *logger.Logger, services Services, health httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(health),
		Auth:     httpH.NewAuthHandler(log, services.Auth),
		Plan:     httpH.NewPlanHandler(log, services.StudyPlan),
		Progress: httpH.NewProgressHandler(log, services.StudyPlan),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = observability.ServiceName(cfg.Otel)
	}
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		PlanHandler:     handlers.Plan,
		ProgressHandler: handlers.Progress,
	})
}
