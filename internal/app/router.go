package app

import (
	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/middleware"
	"apec_lms_backend/internal/model"

	"apec_lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	// 1. Public routes: the wallet sign-in handshake.
	public := router.Group("/api/auth")
	{
		public.POST("/challenge", c.auth.Challenge)
		public.POST("/login", c.auth.Login)
	}

	// 2. Authenticated routes.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/role", c.auth.ChooseRole)

		authGroup.GET("/courses", c.course.List)
		authGroup.GET("/courses/:id", c.course.Get)
		authGroup.GET("/student/courses", c.course.StudentCourses)

		authGroup.POST("/enroll", c.enrollment.Enroll)
		authGroup.GET("/enrollments", c.enrollment.List)
		authGroup.POST("/enrollment/complete", c.enrollment.Complete)

		authGroup.POST("/quiz/submit", c.quiz.Submit)
		authGroup.POST("/quiz/reset", c.quiz.Reset)

		authGroup.GET("/certificates", c.certificate.ListMine)
		authGroup.POST("/certificates/:id/confirm", c.certificate.Confirm)

		// 3. Educator routes.
		educator := authGroup.Group("/educator")
		educator.Use(middleware.RoleMiddleware(model.Educator))
		{
			educator.GET("/profile", c.educator.GetProfile)
			educator.PUT("/profile", c.educator.UpdateProfile)

			educator.POST("/courses", c.course.Create)
			educator.DELETE("/courses/:id", c.course.Delete)
			educator.POST("/courses/:id/video", c.course.UploadVideo)

			educator.POST("/certificates", c.certificate.Mint)
		}
	}
}
