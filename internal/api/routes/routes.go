package routes

import (
	"net/http"

	"jobmatch/internal/api/handlers"
	"jobmatch/internal/api/middleware"
	"jobmatch/internal/auth"
	"jobmatch/internal/autoapply"
	"jobmatch/internal/config"
	"jobmatch/internal/coverletter"
	"jobmatch/internal/ingest"
	"jobmatch/internal/lifecycle"
	"jobmatch/internal/store"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Deps bundles everything the route tree needs
type Deps struct {
	Config    *config.Config
	Store     store.Store
	Tokens    *auth.TokenProvider
	Letters   coverletter.Generator
	Refresher *ingest.Refresher
	Selector  *autoapply.Selector
	Simulator *lifecycle.Simulator
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, deps Deps) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(deps.Config.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler(deps.Store))
		health.GET("/ready", handlers.ReadinessHandler(deps.Store))
		health.GET("/live", handlers.LivenessHandler)
	}

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", handlers.RegisterHandler(deps.Store, deps.Tokens))
			authGroup.POST("/login", handlers.LoginHandler(deps.Store, deps.Tokens))
		}

		// Everything below requires a bearer token
		authed := v1.Group("", middleware.RequireAuth(deps.Tokens))

		user := authed.Group("/user")
		{
			user.GET("/profile", handlers.GetProfileHandler(deps.Store))
			user.PUT("/profile", handlers.UpdateProfileHandler(deps.Store))
		}

		jobs := authed.Group("/jobs")
		{
			jobs.GET("", handlers.ListJobsHandler(deps.Store, deps.Refresher))
			jobs.GET("/:id", handlers.GetJobHandler(deps.Store))
		}

		applications := authed.Group("/applications")
		{
			applications.POST("", handlers.CreateApplicationHandler(deps.Store, deps.Letters))
			applications.GET("", handlers.ListApplicationsHandler(deps.Store))
			applications.PUT("/:id", handlers.UpdateApplicationHandler(deps.Store))
		}

		authed.POST("/auto-apply", handlers.AutoApplyHandler(deps.Selector))

		authed.GET("/dashboard/stats", handlers.DashboardStatsHandler(deps.Store))

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", handlers.ListNotificationsHandler(deps.Store))
			notifications.PUT("/read-all", handlers.MarkAllNotificationsReadHandler(deps.Store))
			notifications.PUT("/:id/read", handlers.MarkNotificationReadHandler(deps.Store))
			notifications.DELETE("/:id", handlers.DeleteNotificationHandler(deps.Store))
		}

		authed.POST("/lifecycle/sweep", handlers.TriggerSweepHandler(deps.Simulator))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "AI JobMatch",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
