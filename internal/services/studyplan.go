package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/cache"
	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan"
	"github.com/yungbote/studyplan-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// PlanGenerator produces a validated plan from request parameters.
type PlanGenerator interface {
	Generate(ctx context.Context, params studyplan.Params) (*studyplan.Plan, error)
}

// PlanView is the API shape of a stored plan.
type PlanView struct {
	ID                   uuid.UUID       `json:"id"`
	Subject              string          `json:"subject"`
	Level                string          `json:"level"`
	Days                 int             `json:"days"`
	HoursPerDay          float64         `json:"hours_per_day"`
	CompletionPercentage float64         `json:"completion_percentage"`
	PlanData             []studyplan.Day `json:"plan_data"`
	CreatedAt            time.Time       `json:"created_at"`
}

type ToggleResult struct {
	CompletionPercentage float64         `json:"completion_percentage"`
	PlanData             []studyplan.Day `json:"plan_data"`
}

type PlanProgress struct {
	ID      uuid.UUID `json:"id"`
	Subject string    `json:"subject"`
	Level   string    `json:"level"`
	Days    int       `json:"days"`
	studyplan.Progress
}

type ProgressOverview struct {
	Plans   []PlanProgress     `json:"plans"`
	Overall studyplan.Progress `json:"overall"`
}

// StudyPlanService operates on the plans of the authenticated caller taken
// from ctx.
type StudyPlanService interface {
	Generate(ctx context.Context, params studyplan.Params) (*PlanView, error)
	List(ctx context.Context) ([]PlanView, error)
	Get(ctx context.Context, planID uuid.UUID) (*PlanView, error)
	ToggleTopic(ctx context.Context, planID uuid.UUID, dayIndex, topicIndex int) (*ToggleResult, error)
	Delete(ctx context.Context, planID uuid.UUID) error
	Overview(ctx context.Context) (*ProgressOverview, error)
}

type studyPlanService struct {
	db        *gorm.DB
	log       *logger.Logger
	plans     repos.StudyPlanRepo
	generator PlanGenerator
	listCache cache.PlanListCache
}

func NewStudyPlanService(
	db *gorm.DB,
	log *logger.Logger,
	plans repos.StudyPlanRepo,
	generator PlanGenerator,
	listCache cache.PlanListCache,
) StudyPlanService {
	if listCache == nil {
		listCache = cache.NewNopPlanListCache()
	}
	return &studyPlanService{
		db:        db,
		log:       log.With("service", "StudyPlanService"),
		plans:     plans,
		generator: generator,
		listCache: listCache,
	}
}

func callerID(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, pkgerrors.ErrUnauthorized
	}
	return id, nil
}

func (s *studyPlanService) Generate(ctx context.Context, params studyplan.Params) (*PlanView, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := s.generator.Generate(ctx, params)
	if err != nil {
		return nil, err
	}
	raw, err := studyplan.EncodeBody(plan.Body)
	if err != nil {
		return nil, fmt.Errorf("encode plan body: %w", err)
	}

	row := &types.StudyPlan{
		UserID:               userID,
		Subject:              plan.Subject,
		Level:                plan.Level,
		Days:                 plan.Days,
		HoursPerDay:          plan.HoursPerDay,
		CompletionPercentage: studyplan.CompletionPercentage(plan.Body),
		PlanData:             datatypes.JSON(raw),
	}
	if _, err := s.plans.Create(dbctx.Context{Ctx: ctx}, row); err != nil {
		return nil, fmt.Errorf("store plan: %w", err)
	}
	s.listCache.Invalidate(ctx, userID)

	s.log.Info("Study plan created", "user_id", userID, "plan_id", row.ID, "days", row.Days)
	return &PlanView{
		ID:                   row.ID,
		Subject:              row.Subject,
		Level:                row.Level,
		Days:                 row.Days,
		HoursPerDay:          row.HoursPerDay,
		CompletionPercentage: row.CompletionPercentage,
		PlanData:             plan.Body,
		CreatedAt:            row.CreatedAt,
	}, nil
}

func (s *studyPlanService) List(ctx context.Context) ([]PlanView, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	raw, version, ok := s.listCache.Get(ctx, userID)
	if ok {
		var cached []PlanView
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		s.log.Warn("Discarding undecodable plan list cache entry", "user_id", userID)
	}

	rows, err := s.plans.ListByOwner(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	views := make([]PlanView, 0, len(rows))
	for _, row := range rows {
		v, err := toPlanView(row)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}

	if raw, err := json.Marshal(views); err == nil {
		s.listCache.Set(ctx, userID, version, raw)
	}
	return views, nil
}

func (s *studyPlanService) Get(ctx context.Context, planID uuid.UUID) (*PlanView, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.plans.GetForOwner(dbctx.Context{Ctx: ctx}, userID, planID)
	if err != nil {
		return nil, err
	}
	return toPlanView(row)
}

// ToggleTopic flips one topic and writes the whole body back with the new
// percentage. Concurrent toggles on the same plan are last-write-wins.
func (s *studyPlanService) ToggleTopic(ctx context.Context, planID uuid.UUID, dayIndex, topicIndex int) (*ToggleResult, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var result *ToggleResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.plans.GetForOwner(dbc, userID, planID)
		if err != nil {
			return err
		}
		body, err := studyplan.DecodeBody(row.PlanData)
		if err != nil {
			return err
		}
		next, pct, err := studyplan.Toggle(body, dayIndex, topicIndex)
		if err != nil {
			return err
		}
		raw, err := studyplan.EncodeBody(next)
		if err != nil {
			return fmt.Errorf("encode plan body: %w", err)
		}
		if err := s.plans.ReplaceBody(dbc, userID, planID, raw, pct); err != nil {
			return err
		}
		result = &ToggleResult{CompletionPercentage: pct, PlanData: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.listCache.Invalidate(ctx, userID)
	return result, nil
}

func (s *studyPlanService) Delete(ctx context.Context, planID uuid.UUID) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	if err := s.plans.Delete(dbctx.Context{Ctx: ctx}, userID, planID); err != nil {
		return err
	}
	s.listCache.Invalidate(ctx, userID)
	s.log.Info("Study plan deleted", "user_id", userID, "plan_id", planID)
	return nil
}

// Overview aggregates completion across all of the caller's plans. Plans
// count by topic, not equally.
func (s *studyPlanService) Overview(ctx context.Context) (*ProgressOverview, error) {
	views, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &ProgressOverview{Plans: make([]PlanProgress, 0, len(views))}
	bodies := make([][]studyplan.Day, 0, len(views))
	for _, v := range views {
		bodies = append(bodies, v.PlanData)
		out.Plans = append(out.Plans, PlanProgress{
			ID:       v.ID,
			Subject:  v.Subject,
			Level:    v.Level,
			Days:     v.Days,
			Progress: studyplan.Summarize(v.PlanData),
		})
	}
	out.Overall = studyplan.Summarize(bodies...)
	return out, nil
}

func toPlanView(row *types.StudyPlan) (*PlanView, error) {
	body, err := studyplan.DecodeBody(row.PlanData)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", row.ID, err)
	}
	return &PlanView{
		ID:                   row.ID,
		Subject:              row.Subject,
		Level:                row.Level,
		Days:                 row.Days,
		HoursPerDay:          row.HoursPerDay,
		CompletionPercentage: row.CompletionPercentage,
		PlanData:             body,
		CreatedAt:            row.CreatedAt,
	}, nil
}
