package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campusops/faculty-workload-api/api/swagger"
	"github.com/campusops/faculty-workload-api/internal/handler"
	"github.com/campusops/faculty-workload-api/internal/middleware"
	"github.com/campusops/faculty-workload-api/internal/models"
	"github.com/campusops/faculty-workload-api/internal/repository"
	"github.com/campusops/faculty-workload-api/internal/service"
	rediscache "github.com/campusops/faculty-workload-api/pkg/cache"
	"github.com/campusops/faculty-workload-api/pkg/config"
	"github.com/campusops/faculty-workload-api/pkg/database"
	"github.com/campusops/faculty-workload-api/pkg/logger"
	corsmiddleware "github.com/campusops/faculty-workload-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusops/faculty-workload-api/pkg/middleware/requestid"
)

// @title Faculty Workload API
// @version 1.0.0
// @description Faculty timetable, clash validation and workload reporting
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()

	facultyRepo := repository.NewFacultyRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	facultySvc := service.NewFacultyService(facultyRepo, cacheSvc, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, cacheSvc, validate, logr)
	lectureSvc := service.NewLectureService(lectureRepo, facultyRepo, subjectRepo, cacheSvc, metrics, validate, logr)
	workloadSvc := service.NewWorkloadService(lectureRepo, logr)
	timetableSvc := service.NewTimetableService(lectureRepo, logr)
	exportSvc := service.NewExportService(timetableSvc, workloadSvc, logr)
	dashboardSvc := service.NewDashboardService(facultyRepo, subjectRepo, lectureRepo, workloadSvc, timetableSvc, cacheSvc, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "faculty-workload-api",
		SingleSession:      cfg.Auth.SingleSession,
	})

	if cfg.Auth.WipeSessionsOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := authSvc.RevokeAllSessions(ctx); err != nil {
			logr.Warn("startup session wipe failed", zap.Error(err))
		}
		cancel()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	lectureHandler := handler.NewLectureHandler(lectureSvc)
	workloadHandler := handler.NewWorkloadHandler(workloadSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		auth.POST("/sessions/revoke-all", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), authHandler.RevokeAllSessions)
	}

	protected := api.Group("", middleware.JWT(authSvc))
	{
		protected.GET("/faculties", facultyHandler.List)
		protected.POST("/faculties", facultyHandler.Create)
		protected.GET("/faculties/:id", facultyHandler.Get)
		protected.PUT("/faculties/:id", facultyHandler.Update)
		protected.DELETE("/faculties/:id", facultyHandler.Delete)
		protected.GET("/faculties/:id/lectures", lectureHandler.ListByFaculty)

		protected.GET("/subjects", subjectHandler.List)
		protected.POST("/subjects", subjectHandler.Create)
		protected.GET("/subjects/:id", subjectHandler.Get)
		protected.PUT("/subjects/:id", subjectHandler.Update)
		protected.DELETE("/subjects/:id", subjectHandler.Delete)

		protected.GET("/lectures", lectureHandler.List)
		protected.POST("/lectures", lectureHandler.Create)
		protected.GET("/lectures/:id", lectureHandler.Get)
		protected.PUT("/lectures/:id", lectureHandler.Update)
		protected.DELETE("/lectures/:id", lectureHandler.Delete)

		protected.GET("/workload", workloadHandler.Report)
		protected.GET("/workload/export", exportHandler.Workload)

		protected.GET("/divisions/:division/timetable", timetableHandler.Get)
		protected.GET("/divisions/:division/timetable/export", exportHandler.Timetable)

		protected.GET("/dashboard", dashboardHandler.Get)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
