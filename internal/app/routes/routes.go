package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/unireg/internal/app/controllers"
	"github.com/yigit/unireg/internal/middleware"
	"github.com/yigit/unireg/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	catalogController *controllers.CatalogController,
	cartController *controllers.CartController,
	scheduleController *controllers.ScheduleController,
	registrationController *controllers.RegistrationController,
	profileController *controllers.ProfileController,
	scheduleSocket *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", catalogController.ListCourses)
		courses.GET("/options", catalogController.GetOptions)
		courses.GET("/:id", catalogController.GetCourse)
		courses.GET("/:id/statistics", catalogController.GetCourseStatistics)
	}
	v1.GET("/departments", catalogController.ListDepartments)
	v1.GET("/statistics/registrations", catalogController.GetRegistrationStatistics)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/courses", catalogController.CreateCourse)
		authenticated.PATCH("/courses/:id/status", catalogController.UpdateCourseStatus)

		cart := authenticated.Group("/cart")
		{
			cart.GET("", cartController.GetCart)
			cart.DELETE("", cartController.ClearCart)
			cart.POST("/items", cartController.AddCourse)
			cart.DELETE("/items/:courseId", cartController.RemoveCourse)
			cart.POST("/resolve", cartController.ResolveConflict)
		}

		schedule := authenticated.Group("/schedule")
		{
			schedule.GET("", scheduleController.GetSchedule)
			schedule.POST("/export", scheduleController.ExportSchedule)
			// token may come as a query parameter on the handshake
			schedule.GET("/ws", scheduleSocket.HandleConnection)
		}

		registration := authenticated.Group("/registration")
		{
			registration.GET("", registrationController.Status)
			registration.DELETE("", registrationController.Abandon)
			registration.GET("/history", registrationController.History)
			registration.POST("/start", registrationController.Start)
			registration.POST("/validate", registrationController.Validate)
			registration.POST("/pay", registrationController.Pay)
			registration.POST("/finalize", registrationController.Finalize)
		}

		profile := authenticated.Group("/profile")
		{
			profile.GET("", authController.GetProfile)
			profile.GET("/preferences", profileController.GetPreferences)
			profile.PUT("/preferences/dark-mode", profileController.SetDarkMode)
			profile.POST("/preferences/dark-mode/toggle", profileController.ToggleDarkMode)
			profile.GET("/transcript", profileController.GetTranscript)
			profile.POST("/transcript", profileController.AddGrade)
		}
	}
}
