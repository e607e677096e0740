package testutil

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStudyPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, owner *types.User, body string, percentage float64) *types.StudyPlan {
	tb.Helper()
	p := &types.StudyPlan{
		UserID:               owner.ID,
		Subject:              "Algebra",
		Level:                "Beginner",
		Days:                 1,
		HoursPerDay:          1,
		CompletionPercentage: percentage,
		PlanData:             datatypes.JSON([]byte(body)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed study plan: %v", err)
	}
	return p
}
