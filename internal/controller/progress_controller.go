package controller

import (
	"errors"
	"net/http"

	"kidlearn_backend/internal/model"
	"kidlearn_backend/internal/repository"
	"kidlearn_backend/internal/service"
	"kidlearn_backend/internal/util"
	"kidlearn_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

func actorFor(claims *util.Claims) service.Actor {
	return service.Actor{
		ParentID: claims.ParentID,
		Admin:    claims.Role == model.RoleAdmin,
	}
}

// ValidationStatusCode maps an invalid result to the HTTP status the
// envelope carries: missing entities read as 404, everything else the
// engine rejected reads as 422. The engine itself is transport-agnostic;
// this mapping is the controller's.
func ValidationStatusCode(result *validation.ValidationResult) int {
	if result.HasSystemError() {
		return http.StatusInternalServerError
	}
	if result.FailedCheck(validation.CheckChildExists) != nil ||
		result.FailedCheck(validation.CheckActivityExists) != nil {
		return http.StatusNotFound
	}
	return http.StatusUnprocessableEntity
}

// @Summary Submit a progress update
// @Description Validates self-reported activity telemetry and persists it when consistent
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Param activityId path string true "Activity ID"
// @Param payload body model.ProgressUpdatePayload true "Progress telemetry"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/children/{childId}/activities/{activityId}/progress [patch]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	childID := ctx.Param("childId")
	activityID := ctx.Param("activityId")

	var payload model.ProgressUpdatePayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if payload.ActivityID == "" {
		payload.ActivityID = activityID
	} else if payload.ActivityID != activityID {
		util.BadRequest(ctx, "payload activityId does not match the request path")
		return
	}

	result, record, err := c.ProgressService.UpdateProgress(ctx.Request.Context(), actorFor(user), childID, &payload)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleRecord):
			util.Conflict(ctx, "progress record was updated concurrently, please retry")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if !result.IsValid {
		util.ErrorWithData(ctx, ValidationStatusCode(result), "progress update failed validation", result)
		return
	}

	util.Success(ctx, gin.H{
		"record":     record,
		"validation": result,
	})
}

// @Summary Get progress for one activity
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Param activityId path string true "Activity ID"
// @Success 200 {object} util.Response
// @Router /api/children/{childId}/activities/{activityId}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	record, err := c.ProgressService.GetProgress(ctx.Request.Context(), actorFor(user), ctx.Param("childId"), ctx.Param("activityId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrChildNotFound), errors.Is(err, util.ErrActivityNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	if record == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, record)
}

// @Summary Get all progress records for a child
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {object} util.Response
// @Router /api/children/{childId}/progress [get]
func (c *ProgressController) GetChildProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	records, summary, err := c.ProgressService.GetChildProgress(ctx.Request.Context(), actorFor(user), ctx.Param("childId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrChildNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{
		"records": records,
		"summary": summary,
	})
}
