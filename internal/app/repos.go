package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	StudyPlan repos.StudyPlanRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		StudyPlan: repos.NewStudyPlanRepo(db, log),
	}
}
