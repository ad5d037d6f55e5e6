package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

type routerDeps struct {
	tokens    middleware.TokenValidator
	metrics   *service.MetricsService
	generator *handler.TimetableGeneratorHandler
	timetable *handler.TimetableHandler
	health    *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))

	r.GET("/health", deps.health.Health)
	r.GET("/ready", deps.health.Ready)
	r.GET("/metrics", deps.health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staff := middleware.RBAC(models.RoleAdmin, models.RoleSuperAdmin)
	approvers := middleware.RBAC(models.RoleSuperAdmin)
	auditors := middleware.RBAC(models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher)

	api := r.Group(cfg.APIPrefix, middleware.JWT(deps.tokens))
	timetables := api.Group("/timetables")
	{
		timetables.POST("/generate", staff, deps.generator.Generate)
		timetables.POST("/generate/async", staff, deps.generator.GenerateAsync)
		timetables.GET("/proposals/:id", staff, deps.generator.GetProposal)
		timetables.POST("/audit", auditors, deps.generator.Audit)

		timetables.GET("", deps.timetable.List)
		timetables.POST("", staff, deps.timetable.Create)
		timetables.GET("/:id", deps.timetable.Get)
		timetables.GET("/:id/conflicts", deps.timetable.Conflicts)
		timetables.PUT("/:id/slots", staff, deps.timetable.ReplaceSlots)
		timetables.DELETE("/:id", staff, deps.timetable.Delete)

		timetables.POST("/:id/submit", staff, deps.timetable.Transition(service.ActionSubmit))
		for _, action := range []string{
			service.ActionApprove,
			service.ActionReject,
			service.ActionActivate,
			service.ActionComplete,
			service.ActionCancel,
		} {
			timetables.POST("/:id/"+action, approvers, deps.timetable.Transition(action))
		}
	}

	return r
}
