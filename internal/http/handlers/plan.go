package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type PlanHandler struct {
	log   *logger.Logger
	plans services.StudyPlanService
}

func NewPlanHandler(log *logger.Logger, plans services.StudyPlanService) *PlanHandler {
	return &PlanHandler{log: log.With("handler", "PlanHandler"), plans: plans}
}

type generatePlanRequest struct {
	Subject string   `json:"subject" binding:"required"`
	Level   string   `json:"level" binding:"required"`
	Days    *int     `json:"days" binding:"required"`
	Hours   *float64 `json:"hours" binding:"required"`
}

type toggleRequest struct {
	DayIndex   *int `json:"day_index" binding:"required"`
	TopicIndex *int `json:"topic_index" binding:"required"`
}

// POST /api/plans/generate
func (h *PlanHandler) Generate(c *gin.Context) {
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	plan, err := h.plans.Generate(c.Request.Context(), studyplan.Params{
		Subject:     req.Subject,
		Level:       req.Level,
		Days:        *req.Days,
		HoursPerDay: *req.Hours,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message": "Plan generated successfully",
		"id":      plan.ID,
		"plan":    plan.PlanData,
	})
}

// GET /api/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.plans.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, plans)
}

// GET /api/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	planID, ok := planIDParam(c)
	if !ok {
		return
	}
	plan, err := h.plans.Get(c.Request.Context(), planID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, plan)
}

// POST /api/plans/:id/toggle
func (h *PlanHandler) Toggle(c *gin.Context) {
	planID, ok := planIDParam(c)
	if !ok {
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.plans.ToggleTopic(c.Request.Context(), planID, *req.DayIndex, *req.TopicIndex)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	planID, ok := planIDParam(c)
	if !ok {
		return
	}
	if err := h.plans.Delete(c.Request.Context(), planID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Plan deleted"})
}

func planIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid plan id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}
