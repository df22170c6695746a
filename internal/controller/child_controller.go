package controller

import (
	"kidlearn_backend/internal/model"
	"kidlearn_backend/internal/repository"
	"kidlearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChildController struct {
	ChildRepo    *repository.ChildRepository
	ActivityRepo *repository.ActivityRepository
}

func NewChildController(childRepo *repository.ChildRepository, activityRepo *repository.ActivityRepository) *ChildController {
	return &ChildController{ChildRepo: childRepo, ActivityRepo: activityRepo}
}

type createChildRequest struct {
	Name     string `json:"name" binding:"required"`
	AgeGroup string `json:"ageGroup"`
}

// @Summary Register a child profile
// @Tags children
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/children [post]
func (c *ChildController) CreateChild(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req createChildRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	child := &model.Child{
		Name:     req.Name,
		AgeGroup: req.AgeGroup,
		ParentID: user.ParentID,
		IsActive: true,
	}
	if err := c.ChildRepo.Create(ctx.Request.Context(), child); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, child)
}

// @Summary List the authenticated parent's children
// @Tags children
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/children [get]
func (c *ChildController) ListChildren(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	children, err := c.ChildRepo.FindByParent(ctx.Request.Context(), user.ParentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, children)
}

// @Summary List a child's assigned activities
// @Tags children
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {object} util.Response
// @Router /api/children/{childId}/activities [get]
func (c *ChildController) ListActivities(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	activities, err := c.ActivityRepo.FindByChild(ctx.Request.Context(), ctx.Param("childId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, activities)
}
