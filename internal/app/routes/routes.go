package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/backend/internal/app/controllers"
	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/app/models/dto"
	"github.com/learnhub/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public Auth routes ---
	api.POST("/register", authController.Register)
	api.POST("/login", authController.Login)

	// --- Public Course routes ---
	courses := api.Group("/courses")
	{
		courses.GET("", courseController.GetCourses)
		courses.GET("/:id", courseController.GetCourse)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/user", authController.CurrentUser)

		// Enrollment routes (any authenticated user)
		authenticated.POST("/enroll", enrollmentController.Enroll)
		authenticated.GET("/enrollments", enrollmentController.GetEnrollments)
		authenticated.POST("/progress", enrollmentController.UpdateProgress)

		// Admin-only routes
		adminProtected := authenticated.Group("")
		adminProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			adminProtected.POST("/courses", courseController.CreateCourse)
			adminProtected.PATCH("/courses/:id", courseController.UpdateCourse)
			adminProtected.DELETE("/courses/:id", courseController.DeleteCourse)

			adminProtected.GET("/users", userController.GetUsers)
			adminProtected.POST("/users", userController.CreateUser)

			adminProtected.GET("/all-enrollments", enrollmentController.GetAllEnrollments)
		}
	}

	// Health check endpoint (public)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})
}
