package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-results-api/api/swagger"
	"github.com/noah-isme/sma-results-api/internal/handler"
	"github.com/noah-isme/sma-results-api/internal/repository"
	"github.com/noah-isme/sma-results-api/internal/service"
	"github.com/noah-isme/sma-results-api/pkg/cache"
	"github.com/noah-isme/sma-results-api/pkg/config"
	"github.com/noah-isme/sma-results-api/pkg/database"
	"github.com/noah-isme/sma-results-api/pkg/export"
	"github.com/noah-isme/sma-results-api/pkg/jobs"
	"github.com/noah-isme/sma-results-api/pkg/logger"
	"github.com/noah-isme/sma-results-api/pkg/mailer"
	"github.com/noah-isme/sma-results-api/pkg/storage"
)

// @title SMA Results API
// @version 1.0.0
// @description Term results, class rankings and report cards.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Ranking.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, ranking cache disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg, db, redisClient, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to build application", "error", err)
	}
	defer app.queue.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, app, logr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
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

type application struct {
	metrics      *service.MetricsService
	auth         *service.AuthService
	queue        *jobs.Queue
	results      *handler.ResultHandler
	courses      *handler.CourseHandler
	classCourses *handler.ClassCourseHandler
	rankings     *handler.RankingHandler
	health       *handler.HealthHandler
}

func buildApp(ctx context.Context, cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, logr *zap.Logger) (*application, error) {
	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	resultRepo := repository.NewResultRepository(db)
	courseResultRepo := repository.NewCourseResultRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	classCourseRepo := repository.NewClassCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	changeLogRepo := repository.NewChangeLogRepository(db)
	cohortSizeRepo := repository.NewCohortSizeRepository(db)

	checks := map[string]handler.Pinger{"postgres": handler.PingFunc(db.PingContext)}
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		redisRepo := repository.NewCacheRepository(redisClient, logr)
		cacheRepo = redisRepo
		checks["redis"] = redisRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Ranking.CacheTTL, logr, cfg.Ranking.CacheEnabled)

	store, err := storage.NewLocalStorage(cfg.Artifacts.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init artifact storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Artifacts.SignedURLSecret, cfg.Artifacts.SignedURLTTL)

	queue, notifier := buildNotifications(ctx, cfg, studentRepo, metrics, logr)

	tx := database.NewTransactor(db)
	sizes := service.NewCohortSizeService(cohortSizeRepo, logr)
	audit := service.NewAuditService(changeLogRepo, logr)
	reportCards := service.NewReportCardService(resultRepo, courseResultRepo, sizes, export.NewReportCardRenderer(), store, metrics, service.ReportCardConfig{
		SchoolName:    cfg.SchoolName,
		RenderTimeout: cfg.Artifacts.RenderTimeout,
	}, logr)
	positions := service.NewPositionService(tx, resultRepo, courseResultRepo, sizes, cacheSvc, metrics, logr)
	publication := service.NewPublicationService(resultRepo, audit, notifier, reportCards, cacheSvc, metrics, logr)

	resultSvc := service.NewResultService(service.ResultDeps{
		Tx:            tx,
		Results:       resultRepo,
		CourseResults: courseResultRepo,
		Students:      studentRepo,
		ClassCourses:  classCourseRepo,
		Sizes:         sizes,
		Positions:     positions,
		Audit:         audit,
		Publication:   publication,
		Notifier:      notifier,
		Artifacts:     reportCards,
		Signer:        signer,
		Validator:     validate,
		Logger:        logr,
		Config:        service.ResultConfig{APIPrefix: cfg.APIPrefix},
	})
	bulkSvc := service.NewBulkStatusService(service.BulkStatusDeps{
		Tx:            tx,
		Results:       resultRepo,
		CourseResults: courseResultRepo,
		Students:      studentRepo,
		ClassCourses:  classCourseRepo,
		Positions:     positions,
		Audit:         audit,
		Notifier:      notifier,
		Artifacts:     reportCards,
		Metrics:       metrics,
		Validator:     validate,
		Logger:        logr,
	})
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	classCourseSvc := service.NewClassCourseService(classCourseRepo, courseRepo, validate, logr)
	rankingSvc := service.NewRankingService(resultRepo, courseResultRepo, sizes, publication, cacheSvc, cfg.Ranking.CacheTTL, logr)

	return &application{
		metrics:      metrics,
		auth:         service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}),
		queue:        queue,
		results:      handler.NewResultHandler(resultSvc, bulkSvc),
		courses:      handler.NewCourseHandler(courseSvc),
		classCourses: handler.NewClassCourseHandler(classCourseSvc),
		rankings:     handler.NewRankingHandler(rankingSvc),
		health:       handler.NewHealthHandler(metrics, checks, logr),
	}, nil
}

func buildNotifications(ctx context.Context, cfg *config.Config, students *repository.StudentRepository, metrics *service.MetricsService, logr *zap.Logger) (*jobs.Queue, *service.NotificationService) {
	ncfg := cfg.Notifications

	var m mailer.Mailer
	switch ncfg.Provider {
	case config.ProviderSendgrid:
		m = mailer.NewSendgridMailer(ncfg.SendgridAPIKey, mail.Address{Name: ncfg.FromName, Address: ncfg.FromEmail}, logr)
	default:
		m = mailer.NewLogMailer(logr)
	}

	worker := service.NewNotificationWorker(students, m, metrics, service.NotificationSender{SchoolName: cfg.SchoolName}, logr)
	queue := jobs.NewQueue("notifications", worker.Handle, jobs.QueueConfig{
		Workers:    ncfg.Workers,
		MaxRetries: ncfg.Retries,
		JobTimeout: ncfg.Timeout,
		OnFailure:  worker.Failed,
		Logger:     logr,
	})
	if !ncfg.Enabled {
		logr.Info("publication notifications disabled")
		return queue, service.NewNotificationService(nil, metrics, logr)
	}
	queue.Start(ctx)
	return queue, service.NewNotificationService(queue, metrics, logr)
}
