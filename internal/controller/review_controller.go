package controller

import (
	"kidlearn_backend/internal/service"
	"kidlearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ReviewController exposes the anomaly review queue to admins.
type ReviewController struct {
	Anomaly *service.AnomalyService
}

func NewReviewController(anomaly *service.AnomalyService) *ReviewController {
	return &ReviewController{Anomaly: anomaly}
}

// @Summary Pending anomaly review count
// @Tags review
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/review/pending [get]
func (c *ReviewController) PendingCount(ctx *gin.Context) {
	count, err := c.Anomaly.PendingReviewCount(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"pending": count})
}
