package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/config"
	"github.com/stemsi/reportcard-backend/internal/handler"
	"github.com/stemsi/reportcard-backend/internal/middleware"
	"github.com/stemsi/reportcard-backend/internal/response"
)

// oneYear is the max-age of content-addressed media.
const oneYear = 365 * 24 * 60 * 60

// Handlers groups all handler instances for route setup.
type Handlers struct {
	School     *handler.SchoolHandler
	Media      *handler.MediaHandler
	Class      *handler.ClassHandler
	Schema     *handler.SchemaHandler
	Submission *handler.SubmissionHandler
	Backup     *handler.BackupHandler
	Dashboard  *handler.DashboardHandler
	WS         *handler.WSHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the background work of the rate limiter.
func SetupRouter(ctx context.Context, handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.System.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/dashboard", handlers.Dashboard.GetDashboardData)

		// Media IDs are content hashes, so a cached copy never goes stale.
		api.GET("/media/:id", middleware.CacheControl(oneYear, true), handlers.Media.GetMedia)

		// ─── Schools ───────────────────────────────────────────────────
		api.GET("/schools", handlers.School.ListSchools)
		api.POST("/schools", handlers.School.CreateSchool)
		api.GET("/schools/:id", handlers.School.GetSchool)
		api.GET("/schools/:id/classes", handlers.Class.ListClasses)
		api.POST("/schools/:id/classes", handlers.Class.CreateClass)

		// ─── Classes ───────────────────────────────────────────────────
		api.GET("/classes/:id", handlers.Class.GetClass)
		api.PUT("/classes/:id/active-schema", handlers.Class.SetActiveSchema)
		api.GET("/classes/:id/students", handlers.Class.ListStudents)
		api.GET("/classes/:id/schemas", handlers.Schema.ListSchemas)
		api.POST("/classes/:id/schemas", handlers.Schema.CreateSchema)

		// ─── Marksheet schemas ─────────────────────────────────────────
		api.GET("/schemas/:id", handlers.Schema.GetSchema)
		api.POST("/schemas/:id/preview", handlers.Submission.Preview)
		api.POST("/schemas/:id/submissions", handlers.Submission.Submit)
		api.GET("/schemas/:id/entries", handlers.Submission.ListEntries)
		api.GET("/schemas/:id/entries/stream", handlers.Submission.StreamEntries)
		api.GET("/schemas/:id/marksheet.xlsx", middleware.NoStore(), handlers.Submission.DownloadMarksheet)

		// ─── Backup ────────────────────────────────────────────────────
		importLimiter := middleware.NewRateLimiter(ctx, cfg.ImportRatePerMinute, time.Minute)
		backup := api.Group("/backup")
		backup.Use(middleware.NoStore())
		{
			backup.GET("/export", handlers.Backup.Export)
			backup.POST("/import", importLimiter.Middleware(), handlers.Backup.Import)
		}
	}

	ws := router.Group("/ws/v1")
	{
		ws.GET("/schemas/:id/entry", handlers.WS.MarksheetEntryStream)
	}

	return router
}
