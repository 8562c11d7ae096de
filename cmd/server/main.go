package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // slot timezones must resolve on minimal images

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/config"
	"github.com/nurulquran/academy-backend/internal/database"
	"github.com/nurulquran/academy-backend/internal/handler"
	"github.com/nurulquran/academy-backend/internal/lock"
	"github.com/nurulquran/academy-backend/internal/logger"
	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository"
	"github.com/nurulquran/academy-backend/internal/repository/memory"
	"github.com/nurulquran/academy-backend/internal/router"
	"github.com/nurulquran/academy-backend/internal/service"
	"github.com/nurulquran/academy-backend/internal/validator"
	"github.com/nurulquran/academy-backend/internal/worker"
)

// stores bundles the repositories behind the service interfaces.
type stores struct {
	sessions service.SessionStore
	classes  service.ClassStore
	users    service.UserStore
	records  service.RecordStore
}

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("lock", cfg.LockBackend).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Academy Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		pool *pgxpool.Pool
		rdb  *redis.Client
		st   stores
	)

	if cfg.UsesMemoryStore() {
		log.Warn().Msg("Running on the in-memory store; data is lost on restart")
		st = stores{
			sessions: memory.NewSessionRepository(),
			classes:  memory.NewClassRepository(),
			users:    memory.NewUserRepository(),
			records:  memory.NewRecordRepository(),
		}
	} else {
		// ─── Connect to PostgreSQL ─────────────────────────────────────
		var err error
		pool, err = database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		// ─── Connect to Redis ──────────────────────────────────────────
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		st = stores{
			sessions: repository.NewSessionRepository(pool),
			classes:  repository.NewClassRepository(pool),
			users:    repository.NewUserRepository(pool),
			records:  repository.NewRecordRepository(pool),
		}
	}

	// ─── Locks, Feed, Attendance Sink ──────────────────────────────────
	var locker lock.Locker = lock.NewLocal()
	if rdb != nil && cfg.LockBackend == config.LockBackendRedis {
		locker = lock.NewRedis(rdb, cfg.LockTTL, cfg.LockWait, log)
	}

	var feed service.CapacityFeed = service.NewLocalCapacityFeed()
	var sink service.AttendanceSink = service.NewDirectAttendanceSink(st.records)
	if rdb != nil {
		feed = service.NewRedisCapacityFeed(rdb, log)
		sink = service.NewAttendanceQueue(rdb)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, st.users, log)
	scheduleService := service.NewScheduleService(st.sessions, locker, log)
	enrollmentService := service.NewEnrollmentService(st.classes, locker, feed, log)
	recordService := service.NewRecordService(st.records, sink, log)
	dashboardService := service.NewDashboardService(st.records, st.classes, st.sessions)

	if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
		admin, err := authService.EnsureUser(ctx, cfg.BootstrapAdminEmail, "Administrator", cfg.BootstrapAdminPassword, model.RoleAdmin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap admin")
		}
		log.Info().Str("email", admin.Email).Msg("Bootstrap admin ready")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, log),
		Session:    handler.NewSessionHandler(scheduleService, log),
		Class:      handler.NewClassHandler(enrollmentService, log),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService, log),
		Record:     handler.NewRecordHandler(recordService, log),
		Dashboard:  handler.NewDashboardHandler(dashboardService, log),
		Pricing:    handler.NewPricingHandler(log),
		Feed:       handler.NewFeedHandler(enrollmentService, feed, log, cfg.AllowedOrigins),
		System:     handler.NewSystemHandler(pool, rdb, cfg, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	if rdb != nil {
		attendanceWorker := worker.NewAttendanceWorker(st.records, rdb, cfg, log)
		go func() {
			defer close(workerDone)
			attendanceWorker.Start(workerCtx)
		}()
	} else {
		close(workerDone)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

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

	// 2. Stop background workers and wait for the attendance queue to drain.
	workerCancel()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Attendance worker did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
