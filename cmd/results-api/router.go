package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/middleware"
	"github.com/noah-isme/sma-results-api/internal/models"
	"github.com/noah-isme/sma-results-api/pkg/config"
	"github.com/noah-isme/sma-results-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-results-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-results-api/pkg/middleware/requestid"
)

func newRouter(cfg *config.Config, app *application, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.metrics))

	r.GET("/health", app.health.Health)
	r.GET("/ready", app.health.Ready)
	r.GET("/metrics", app.health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.GET("/report-cards/:token", app.results.DownloadReportCard)

	secured := api.Group("")
	secured.Use(middleware.JWT(app.auth))

	staff := secured.Group("")
	staff.Use(middleware.StaffOnly())

	courses := staff.Group("/courses")
	courses.GET("", app.courses.List)
	courses.POST("", app.courses.Create)
	courses.GET("/:id", app.courses.Get)
	courses.PUT("/:id", app.courses.Update)
	courses.DELETE("/:id", app.courses.Delete)

	classCourses := staff.Group("/class-courses")
	classCourses.GET("", app.classCourses.List)
	classCourses.GET("/by-class", app.classCourses.ByClass)
	classCourses.POST("", app.classCourses.Create)
	classCourses.POST("/bulk-assign", app.classCourses.BulkAssign)
	classCourses.PUT("/:id", app.classCourses.Update)
	classCourses.DELETE("/:id", app.classCourses.Delete)

	results := staff.Group("/results")
	results.GET("", app.results.List)
	results.POST("", app.results.Create)
	results.GET("/student", app.results.StudentResults)
	results.GET("/class", app.results.ClassResults)
	results.GET("/available-courses", app.results.AvailableCourses)
	results.GET("/students", app.results.Students)
	results.POST("/recalculate-positions", app.results.RecalculatePositions)
	results.POST("/bulk-status", app.results.BulkStatus)
	results.GET("/:id", app.results.Get)
	results.PATCH("/:id", app.results.Update)
	results.DELETE("/:id", middleware.RequireRoles(models.RolePrincipal), app.results.Delete)
	results.GET("/:id/change-log", app.results.ChangeLog)
	results.GET("/:id/report-card", app.results.ReportCardLink)

	rankings := staff.Group("/rankings")
	rankings.GET("", app.rankings.ClassRanking)
	rankings.GET("/export", app.rankings.Export)

	me := secured.Group("/me/results")
	me.Use(middleware.RequireRoles(models.RoleStudent))
	me.GET("", app.results.MyResults)
	me.GET("/current-class", app.results.MyCurrentClassResults)
	me.GET("/previous-classes", app.results.MyPreviousClassResults)
	me.GET("/:id", app.results.Get)
	me.GET("/:id/report-card", app.results.ReportCardLink)

	return r
}
