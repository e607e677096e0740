package studyplan

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// StudyPlanRepo is scoped by owner on every read and write. A plan owned by
// someone else is reported exactly like a missing one.
type StudyPlanRepo interface {
	Create(dbc dbctx.Context, plan *types.StudyPlan) (*types.StudyPlan, error)
	ListByOwner(dbc dbctx.Context, userID uuid.UUID) ([]*types.StudyPlan, error)
	GetForOwner(dbc dbctx.Context, userID, planID uuid.UUID) (*types.StudyPlan, error)
	ReplaceBody(dbc dbctx.Context, userID, planID uuid.UUID, body []byte, percentage float64) error
	Delete(dbc dbctx.Context, userID, planID uuid.UUID) error
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return &studyPlanRepo{db: db, log: baseLog.With("repo", "StudyPlanRepo")}
}

func (r *studyPlanRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *studyPlanRepo) Create(dbc dbctx.Context, plan *types.StudyPlan) (*types.StudyPlan, error) {
	if plan == nil || plan.UserID == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	if err := r.tx(dbc).WithContext(ctxutil.Default(dbc.Ctx)).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

// ListByOwner returns the owner's plans newest first.
func (r *studyPlanRepo) ListByOwner(dbc dbctx.Context, userID uuid.UUID) ([]*types.StudyPlan, error) {
	results := []*types.StudyPlan{}
	if userID == uuid.Nil {
		return results, nil
	}
	if err := r.tx(dbc).WithContext(ctxutil.Default(dbc.Ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studyPlanRepo) GetForOwner(dbc dbctx.Context, userID, planID uuid.UUID) (*types.StudyPlan, error) {
	if userID == uuid.Nil || planID == uuid.Nil {
		return nil, pkgerrors.ErrNotFound
	}
	var row types.StudyPlan
	err := r.tx(dbc).WithContext(ctxutil.Default(dbc.Ctx)).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// ReplaceBody writes plan_data and completion_percentage in one statement.
func (r *studyPlanRepo) ReplaceBody(dbc dbctx.Context, userID, planID uuid.UUID, body []byte, percentage float64) error {
	if userID == uuid.Nil || planID == uuid.Nil {
		return pkgerrors.ErrNotFound
	}
	res := r.tx(dbc).WithContext(ctxutil.Default(dbc.Ctx)).
		Model(&types.StudyPlan{}).
		Where("id = ? AND user_id = ?", planID, userID).
		Updates(map[string]any{
			"plan_data":             datatypes.JSON(body),
			"completion_percentage": percentage,
			"updated_at":            time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (r *studyPlanRepo) Delete(dbc dbctx.Context, userID, planID uuid.UUID) error {
	if userID == uuid.Nil || planID == uuid.Nil {
		return pkgerrors.ErrNotFound
	}
	res := r.tx(dbc).WithContext(ctxutil.Default(dbc.Ctx)).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&types.StudyPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
