package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/reportcard-backend/internal/cache"
	"github.com/stemsi/reportcard-backend/internal/config"
	"github.com/stemsi/reportcard-backend/internal/database"
	"github.com/stemsi/reportcard-backend/internal/handler"
	"github.com/stemsi/reportcard-backend/internal/logger"
	"github.com/stemsi/reportcard-backend/internal/repository"
	"github.com/stemsi/reportcard-backend/internal/router"
	"github.com/stemsi/reportcard-backend/internal/service"
	"github.com/stemsi/reportcard-backend/internal/validator"
	"github.com/stemsi/reportcard-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting report card backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	store := repository.NewStore(pool)
	schoolRepo := repository.NewSchoolRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	schemaRepo := repository.NewSchemaRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	markRepo := repository.NewMarkRepository(pool)

	// ─── Initialize Caches ─────────────────────────────────────────────
	formCache := cache.NewFormCache(rdb, cfg.FormCacheTTL)
	drafts := cache.NewDraftStore(rdb, cfg.DraftTTL)
	entryEvents := cache.NewEntryEvents(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	mediaService := service.NewMediaService(mediaRepo, cfg.MaxUploadBytes)
	schoolService := service.NewSchoolService(schoolRepo, mediaService, log)
	classService := service.NewClassService(classRepo, schoolRepo, schemaRepo)
	studentService := service.NewStudentService(studentRepo, classRepo)
	schemaService := service.NewSchemaService(schemaRepo, classRepo, formCache, log)
	submissionService := service.NewSubmissionService(schemaService, store, markRepo, entryEvents, log)
	spreadsheetService := service.NewSpreadsheetService(schemaService, markRepo)
	backupService := service.NewBackupService(store, cache.NewPurger(rdb), log)
	dashboardService := service.NewDashboardService(store)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		School:     handler.NewSchoolHandler(schoolService, log),
		Media:      handler.NewMediaHandler(mediaService, log),
		Class:      handler.NewClassHandler(classService, studentService, log),
		Schema:     handler.NewSchemaHandler(schemaService, log),
		Submission: handler.NewSubmissionHandler(submissionService, spreadsheetService, entryEvents, log),
		Backup:     handler.NewBackupHandler(backupService, cfg.MaxImportBytes, log),
		Dashboard:  handler.NewDashboardHandler(dashboardService, log),
		WS:         handler.NewWSHandler(schemaService, submissionService, drafts, log, cfg.AllowedOrigins),
		System:     handler.NewSystemHandler(pool, rdb),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	// Compiled forms go to Redis before and while traffic is served.
	prewarmWorker := worker.NewPrewarmWorker(classRepo, schemaService, cfg.PrewarmInterval, log)
	go func() {
		prewarmWorker.Start(workerCtx)
		close(workerDone)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers.
	workerCancel()
	<-workerDone

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
