package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan"
	pkgerrors "github.com/yungbote/studyplan-backend/internal/pkg/errors"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

// toAPIError classifies a service error. Generation failures are masked:
// the raw model output and upstream details stay in the logs.
func toAPIError(err error) *apierr.Error {
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	var ie *studyplan.IndexError
	switch {
	case errors.Is(err, studyplan.ErrInvalidParameters):
		return apierr.New(http.StatusBadRequest, "invalid_parameters", err)
	case errors.As(err, &ie):
		return apierr.New(http.StatusBadRequest, "index_out_of_range", err)
	case errors.Is(err, studyplan.ErrModelCall),
		errors.Is(err, studyplan.ErrNoJSONFound),
		errors.Is(err, studyplan.ErrMalformedJSON),
		errors.Is(err, studyplan.ErrInvalidPlanShape):
		return apierr.Masked(http.StatusBadGateway, "generation_failed", "generation failed", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		return apierr.Masked(http.StatusNotFound, "not_found", "Plan not found", err)
	case errors.Is(err, services.ErrUsernameTaken):
		return apierr.Masked(http.StatusBadRequest, "registration_failed", "Username already exists", err)
	case errors.Is(err, services.ErrEmailTaken):
		return apierr.Masked(http.StatusBadRequest, "registration_failed", "Email already exists", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return apierr.New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, services.ErrInvalidCredentials):
		return apierr.Masked(http.StatusUnauthorized, "invalid_credentials", "Invalid credentials", err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return apierr.Masked(http.StatusUnauthorized, "unauthorized", "Invalid or expired token", err)
	default:
		return apierr.Masked(http.StatusInternalServerError, "internal_error", "internal error", err)
	}
}

func respondServiceError(c *gin.Context, log *logger.Logger, err error) {
	ae := toAPIError(err)
	if ae.Status >= http.StatusInternalServerError {
		log.Error("Request failed", "path", c.FullPath(), "code", ae.Code, "error", err)
	} else {
		log.Debug("Request rejected", "path", c.FullPath(), "code", ae.Code, "error", err)
	}
	response.RespondAPIError(c, ae)
}
