package domain

import (
	"github.com/yungbote/studyplan-backend/internal/domain/auth"
	"github.com/yungbote/studyplan-backend/internal/domain/studyplan"
	"github.com/yungbote/studyplan-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken
type StudyPlan = studyplan.StudyPlan

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&StudyPlan{},
	}
}
