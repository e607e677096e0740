package repos

import (
	"github.com/yungbote/studyplan-backend/internal/data/repos/auth"
	"github.com/yungbote/studyplan-backend/internal/data/repos/studyplan"
	"github.com/yungbote/studyplan-backend/internal/data/repos/user"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo
type StudyPlanRepo = studyplan.StudyPlanRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return user.NewUserRepo(db, log)
}

func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}

func NewStudyPlanRepo(db *gorm.DB, log *logger.Logger) StudyPlanRepo {
	return studyplan.NewStudyPlanRepo(db, log)
}
