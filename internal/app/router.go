package app

import (
	"learnflow_backend/docs"
	"learnflow_backend/internal/config"
	"learnflow_backend/internal/middleware"
	"learnflow_backend/internal/util"
	"learnflow_backend/pkg/monitoring"
	"learnflow_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	generationLimit := security.KeyedRateLimiter(cfg.RateLimit.GenerationPerHour, time.Hour, generationKey)
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.POST("/generate-notes", generationLimit, c.generation.GenerateNotes)
		public.POST("/generate-quiz", generationLimit, c.generation.GenerateQuiz)
		// 未登录时在限流之前返回 {"error":"Unauthorized"}
		public.POST("/generate-roadmap", middleware.TryAuthMiddleware(cfg), middleware.RequireUserJSON(), generationLimit, c.generation.GenerateRoadmap)
	}
}

// generationKey 已登录按用户计数，否则按 IP
func generationKey(c *gin.Context) string {
	if claims := util.GetUserFromContext(c); claims != nil {
		return "user:" + claims.UserID
	}
	return "ip:" + c.ClientIP()
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.profile.GetProfile)
	group.PUT("/profile", c.profile.UpdateProfile)
	group.POST("/profile/avatar", c.profile.UploadAvatar)

	group.POST("/documents", c.document.UploadDocument)

	roadmaps := group.Group("/roadmaps")
	{
		roadmaps.GET("", c.roadmap.ListRoadmaps)
		roadmaps.GET("/:id", c.roadmap.GetRoadmap)
		roadmaps.DELETE("/:id", c.roadmap.DeleteRoadmap)
		roadmaps.POST("/:id/archive", c.roadmap.ArchiveRoadmap)
		roadmaps.PATCH("/:id/tasks/:taskId", c.roadmap.UpdateRoadmapTask)
	}

	tasks := group.Group("/tasks")
	{
		tasks.POST("", c.task.CreateTask)
		tasks.GET("", c.task.ListTasks)
		tasks.GET("/stats", c.task.GetTaskStats)
		tasks.GET("/:id", c.task.GetTask)
		tasks.PUT("/:id", c.task.UpdateTask)
		tasks.DELETE("/:id", c.task.DeleteTask)
		tasks.POST("/:id/toggle", c.task.ToggleTask)
	}

	group.POST("/quiz-attempts", c.quizAttempt.SubmitAttempt)
	group.GET("/quiz-attempts", c.quizAttempt.ListAttempts)

	group.GET("/dashboard", c.dashboard.GetDashboard)
}
