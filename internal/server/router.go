// Package server assembles the HTTP router.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/marks-analytics-api/internal/handler"
	"github.com/noah-isme/marks-analytics-api/internal/middleware"
	"github.com/noah-isme/marks-analytics-api/internal/models"
	"github.com/noah-isme/marks-analytics-api/internal/service"
	"github.com/noah-isme/marks-analytics-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/marks-analytics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/marks-analytics-api/pkg/middleware/requestid"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	Tokens         middleware.TokenValidator
	CookieName     string
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool

	Auth       *handler.AuthHandler
	Analytics  *handler.AnalyticsHandler
	Students   *handler.StudentHandler
	Marks      *handler.MarksHandler
	Attendance *handler.AttendanceHandler
	Users      *handler.UserHandler
	Profile    *handler.ProfileHandler
	Health     *handler.MetricsHandler
}

// NewRouter builds the gin engine with every route under APIPrefix.
func NewRouter(deps Deps) *gin.Engine {
	logr := deps.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(deps.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.WithResponseMeta())

	if deps.Health != nil {
		r.GET("/health", deps.Health.Health)
		r.GET("/metrics", deps.Health.Prometheus)
	}
	if deps.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.APIPrefix)
	authenticated := middleware.JWT(deps.Tokens, deps.CookieName)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	auth := api.Group("/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/logout", deps.Auth.Logout)
	auth.GET("/me", authenticated, deps.Auth.Me)

	admin := api.Group("/admin", authenticated, adminOnly)

	admin.GET("/analytics", deps.Analytics.Index)
	admin.GET("/analytics/overview", deps.Analytics.Overview)
	admin.GET("/analytics/subjects", deps.Analytics.Subjects)
	admin.GET("/analytics/toppers", deps.Analytics.Toppers)
	admin.GET("/analytics/distribution", deps.Analytics.Distribution)
	admin.GET("/analytics/timeline", deps.Analytics.Timeline)
	admin.GET("/analytics/system", deps.Analytics.System)
	admin.GET("/analytics/export", deps.Analytics.Export)

	admin.GET("/students", deps.Students.List)
	admin.POST("/students", deps.Students.Create)
	admin.GET("/students/:id", deps.Students.Get)
	admin.PUT("/students/:id", deps.Students.Update)
	admin.DELETE("/students/:id", deps.Students.Delete)

	admin.GET("/marks", deps.Marks.List)
	admin.POST("/marks", deps.Marks.Add)
	admin.PUT("/marks/:id", deps.Marks.Update)
	admin.DELETE("/marks/:id", deps.Marks.Delete)

	admin.GET("/users", deps.Users.List)
	admin.GET("/users/:id", deps.Users.Get)
	admin.PUT("/users/:id/role", deps.Users.UpdateRole)
	admin.DELETE("/users/:id", deps.Users.Delete)

	attendance := api.Group("/attendance", authenticated, adminOnly)
	attendance.POST("", deps.Attendance.Upsert)
	attendance.GET("", deps.Attendance.List)
	attendance.GET("/summary", deps.Attendance.Summary)
	attendance.GET("/distribution", deps.Attendance.Distribution)

	student := api.Group("/student", authenticated)
	student.GET("/me", deps.Profile.Me)
	student.PUT("/update", deps.Profile.Update)
	student.GET("/my-marks", deps.Profile.MyMarks)

	return r
}
