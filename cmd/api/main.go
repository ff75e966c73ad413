package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/marks-analytics-api/api/swagger"
	"github.com/noah-isme/marks-analytics-api/internal/handler"
	"github.com/noah-isme/marks-analytics-api/internal/repository"
	"github.com/noah-isme/marks-analytics-api/internal/server"
	"github.com/noah-isme/marks-analytics-api/internal/service"
	"github.com/noah-isme/marks-analytics-api/pkg/cache"
	"github.com/noah-isme/marks-analytics-api/pkg/config"
	"github.com/noah-isme/marks-analytics-api/pkg/database"
	"github.com/noah-isme/marks-analytics-api/pkg/logger"
)

// @title Marks Analytics API
// @version 1.0.0
// @description Student marks, attendance and analytics backend
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.Migrations.AutoApply {
		if err := database.Migrate(db, logr, "up"); err != nil {
			logr.Fatal("migrations failed", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Analytics.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		}
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	marksRepo := repository.NewMarksRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:   cfg.JWT.Secret,
		Expiry:   cfg.JWT.Expiration,
		AdminKey: cfg.JWT.AdminKey,
		Issuer:   "marks-analytics-api",
	})
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, metrics, logr, service.AnalyticsConfig{
		DefaultLimit: cfg.Analytics.DefaultLimit,
		MaxLimit:     cfg.Analytics.MaxLimit,
	})
	studentSvc := service.NewStudentService(studentRepo, userRepo, cacheSvc, validate, logr)
	marksSvc := service.NewMarksService(marksRepo, studentRepo, cacheSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, cacheSvc, validate, logr)
	userSvc := service.NewUserService(userRepo, cacheSvc, validate, logr)
	exportSvc := service.NewExportService(analyticsSvc, logr)

	router := server.NewRouter(server.Deps{
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         authSvc,
		CookieName:     cfg.JWT.CookieName,
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Auth:           handler.NewAuthHandler(authSvc, handler.CookieConfig{Name: cfg.JWT.CookieName, Secure: cfg.Env == config.EnvProduction}),
		Analytics:      handler.NewAnalyticsHandler(analyticsSvc, exportSvc, cfg.APIPrefix),
		Students:       handler.NewStudentHandler(studentSvc),
		Marks:          handler.NewMarksHandler(marksSvc),
		Attendance:     handler.NewAttendanceHandler(attendanceSvc),
		Users:          handler.NewUserHandler(userSvc),
		Profile:        handler.NewProfileHandler(studentSvc, marksSvc),
		Health:         handler.NewMetricsHandler(metrics, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
