package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nurulquran/academy-backend/internal/config"
	"github.com/nurulquran/academy-backend/internal/handler"
	"github.com/nurulquran/academy-backend/internal/middleware"
	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/response"
	"github.com/nurulquran/academy-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Session    *handler.SessionHandler
	Class      *handler.ClassHandler
	Enrollment *handler.EnrollmentHandler
	Record     *handler.RecordHandler
	Dashboard  *handler.DashboardHandler
	Pricing    *handler.PricingHandler
	Feed       *handler.FeedHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background janitors such as the rate limiter's.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID, "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", handlers.System.Health)

	// ─── 1. WebSocket Group (query token) ──────────────────────────────
	// Registered before compression: the upgrade needs the raw writer.
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/classes/:id/capacity",
			middleware.RequirePermission(model.PermissionClassesRead),
			handlers.Feed.CapacityStream,
		)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.NoStore(), middleware.Brotli(cfg.CompressionMinBytes))

	// ─── 2. Auth Group ─────────────────────────────────────────────────
	auth := api.Group("/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireJWT(authService))

	// ─── 3. Timetable ──────────────────────────────────────────────────
	sessions := protected.Group("/sessions")
	{
		sessions.GET("", middleware.RequirePermission(model.PermissionSessionsRead), handlers.Session.ListSessions)
		sessions.GET("/:id", middleware.RequirePermission(model.PermissionSessionsRead), handlers.Session.GetSession)
		sessions.POST("", middleware.RequirePermission(model.PermissionSessionsWrite), handlers.Session.CreateSession)
		sessions.POST("/drafts", middleware.RequirePermission(model.PermissionSessionsWrite), handlers.Session.CreateDraft)
		sessions.POST("/:id/publish", middleware.RequirePermission(model.PermissionSessionsWrite), handlers.Session.PublishSession)
		sessions.PUT("/:id", middleware.RequirePermission(model.PermissionSessionsWrite), handlers.Session.UpdateSession)
		sessions.POST("/:id/cancel", middleware.RequirePermission(model.PermissionSessionsWrite), handlers.Session.CancelSession)
		sessions.DELETE("/:id", middleware.RequirePermission(model.PermissionSessionsWrite), handlers.Session.DeleteSession)
	}

	// ─── 4. Classes & Enrollment ───────────────────────────────────────
	classes := protected.Group("/classes")
	{
		classes.PUT("/:id/capacity", middleware.RequirePermission(model.PermissionClassesWrite), handlers.Class.ConfigureCapacity)
		classes.GET("/:id/capacity", middleware.RequirePermission(model.PermissionClassesRead), handlers.Class.GetCapacity)
		classes.GET("/:id/waitlist", middleware.RequirePermission(model.PermissionClassesRead), handlers.Class.GetWaitlist)
		classes.GET("/:id/dashboard", middleware.RequirePermission(model.PermissionClassesRead), handlers.Dashboard.GetClassDashboard)
	}

	// Rate limiter for enrollment requests, per user.
	enrollLimiter := middleware.NewRateLimiter(ctx, cfg.EnrollRatePerMinute, time.Minute)

	enrollments := protected.Group("/enrollments")
	{
		enrollments.POST("",
			middleware.RequirePermission(model.PermissionEnrollmentsWrite),
			enrollLimiter.Middleware(),
			handlers.Enrollment.RequestEnrollment,
		)
		enrollments.POST("/:id/withdraw", middleware.RequirePermission(model.PermissionEnrollmentsWrite), handlers.Enrollment.WithdrawEnrollment)
		enrollments.POST("/:id/complete", middleware.RequirePermission(model.PermissionClassesWrite), handlers.Enrollment.CompleteEnrollment)
	}

	students := protected.Group("/students")
	{
		students.GET("/:id/enrollments",
			middleware.RequireSelfOrPermission("id", model.PermissionDashboardsRead),
			handlers.Enrollment.ListStudentEnrollments,
		)
		students.GET("/:id/dashboard",
			middleware.RequireSelfOrPermission("id", model.PermissionDashboardsRead),
			handlers.Dashboard.GetStudentDashboard,
		)
	}

	// ─── 5. Records & Pricing ──────────────────────────────────────────
	protected.POST("/attendance", middleware.RequirePermission(model.PermissionRecordsWrite), handlers.Record.RecordAttendance)
	protected.POST("/grades", middleware.RequirePermission(model.PermissionRecordsWrite), handlers.Record.RecordGrade)
	protected.POST("/pricing/quote", middleware.RequirePermission(model.PermissionPricingRead), handlers.Pricing.Quote)

	// ─── 6. Admin ──────────────────────────────────────────────────────
	protected.GET("/admin/system/metrics", middleware.RequirePermission(model.PermissionSystemRead), handlers.System.SystemMetricsSSE)

	return router
}
