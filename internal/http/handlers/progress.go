package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type ProgressHandler struct {
	log   *logger.Logger
	plans services.StudyPlanService
}

func NewProgressHandler(log *logger.Logger, plans services.StudyPlanService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), plans: plans}
}

// GET /api/progress
func (h *ProgressHandler) Overview(c *gin.Context) {
	ov, err := h.plans.Overview(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, ov)
}
