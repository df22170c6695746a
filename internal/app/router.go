package app

import (
	"kidlearn_backend/docs"
	"kidlearn_backend/internal/config"
	"kidlearn_backend/internal/middleware"
	"kidlearn_backend/internal/model"
	"kidlearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/children", c.child.CreateChild)
		authGroup.GET("/children", c.child.ListChildren)
		authGroup.GET("/children/:childId/activities", c.child.ListActivities)

		authGroup.PATCH("/children/:childId/activities/:activityId/progress", c.progress.UpdateProgress)
		authGroup.GET("/children/:childId/activities/:activityId/progress", c.progress.GetProgress)
		authGroup.GET("/children/:childId/progress", c.progress.GetChildProgress)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/review/pending", c.review.PendingCount)
	}
}
