package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/cache"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	StudyPlan services.StudyPlanService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	listCache := cache.NewNopPlanListCache()
	if clients.Redis != nil {
		listCache = cache.NewRedisPlanListCache(log, clients.Redis, cfg.PlanCacheTTL)
	}

	generator := studyplan.NewGenerator(log, clients.LLM, studyplan.GeneratorOptions{
		MaxDays: cfg.PlanMaxDays,
		Timeout: cfg.LLM.Timeout,
	})

	return Services{
		Auth: services.NewAuthService(
			db,
			log,
			repos.User,
			repos.UserToken,
			cfg.JWTSecretKey,
			cfg.AccessTokenTTL,
			cfg.RefreshTokenTTL,
		),
		StudyPlan: services.NewStudyPlanService(db, log, repos.StudyPlan, generator, listCache),
	}
}
