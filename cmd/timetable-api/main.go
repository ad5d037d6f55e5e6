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
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

// @title SMA Timetable API
// @version 1.0.0
// @description Timetable generation, conflict auditing and lifecycle management.
// @BasePath /api/v1
// @schemes http
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}

	preset, err := config.LoadGridPreset(cfg.Timetable.GridFile)
	if err != nil {
		logr.Fatal("failed to load grid preset", zap.Error(err), zap.String("path", cfg.Timetable.GridFile))
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Timetable.ProposalTTL, logr,
		cfg.Timetable.CacheEnabled && cacheRepo.Available())
	proposals := service.NewProposalStore(cacheSvc, cfg.Timetable.ProposalTTL)

	timetableRepo := repository.NewTimetableRepository(db)
	slotRepo := repository.NewTimetableSlotRepository(db)
	gridRepo := repository.NewTimeGridRepository(db)

	generatorSvc := service.NewTimetableGeneratorService(
		repository.NewTeachingLoadRepository(db),
		gridRepo,
		slotRepo,
		proposals,
		metricsSvc,
		validate,
		logr,
		service.TimetableGeneratorConfig{ProposalTTL: cfg.Timetable.ProposalTTL, GridPreset: preset},
	)
	timetableSvc := service.NewTimetableService(timetableRepo, slotRepo, proposals, db, metricsSvc, validate, logr, nil)
	timetableSvc.UseGrids(gridRepo, preset)
	tokens := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})

	queue := jobs.NewQueue("timetable-generation", generatorSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Timetable.Workers,
		BufferSize: cfg.Timetable.QueueBuffer,
		MaxRetries: cfg.Timetable.WorkerRetries,
		Logger:     logr,
		OnGiveUp:   generatorSvc.MarkFailed,
	})
	generatorSvc.UseQueue(queue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	queue.Start(ctx)
	defer queue.Stop()

	checks := map[string]handler.Pinger{"database": db}
	if cacheRepo.Available() {
		checks["cache"] = handler.PingFunc(cacheRepo.Ping)
	}

	router := newRouter(cfg, logr, routerDeps{
		tokens:    tokens,
		metrics:   metricsSvc,
		generator: handler.NewTimetableGeneratorHandler(generatorSvc),
		timetable: handler.NewTimetableHandler(timetableSvc),
		health:    handler.NewMetricsHandler(metricsSvc, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
