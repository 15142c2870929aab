package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salus-lms/internal/domain"
	"salus-lms/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userH *UserHandler,
	assessmentH *AssessmentHandler,
	courseH *CourseHandler,
	chatH *ChatHandler,
	adminH *AdminHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/login", userH.Login)
	auth.POST("/otp/request", userH.RequestOTP)
	auth.POST("/otp/verify", userH.VerifyOTP)
	auth.POST("/refresh", userH.Refresh)
	auth.POST("/logout", JWTAuthMiddleware(jwtSvc), userH.Logout)

	assessments := r.Group("/assessments", JWTAuthMiddleware(jwtSvc))
	assessments.POST("", assessmentH.Submit)
	assessments.GET("/status", assessmentH.Status)
	assessments.GET("/latest", assessmentH.Latest)
	assessments.GET("/history", assessmentH.History)

	courses := r.Group("/courses", JWTAuthMiddleware(jwtSvc))
	courses.GET("", courseH.List)
	courses.GET("/search", courseH.Search)
	courses.GET("/:id", courseH.Get)
	courses.GET("/:id/progress", courseH.Progress)
	courses.POST("/:id/lessons/:index/complete", courseH.CompleteLesson)
	courses.POST("", RequireRole(domain.RoleAdmin), courseH.Create)
	courses.POST("/:id/reindex", RequireRole(domain.RoleAdmin), courseH.Reindex)

	chat := r.Group("/chat", JWTAuthMiddleware(jwtSvc))
	chat.POST("/:assistant", chatH.Send)
	chat.GET("/:assistant/history", chatH.History)

	admin := r.Group("/admin", JWTAuthMiddleware(jwtSvc), RequireRole(domain.RoleAdmin))
	admin.POST("/users", adminH.CreateUser)
	admin.GET("/users", adminH.ListUsers)
	admin.PUT("/users/:id", adminH.UpdateUser)
	admin.POST("/teams", adminH.CreateTeam)
	admin.GET("/teams", adminH.ListTeams)
	admin.PUT("/teams/:id", adminH.UpdateTeam)
	admin.POST("/cargos", adminH.CreateCargo)
	admin.GET("/cargos", adminH.ListCargos)
	admin.GET("/activity/chart", adminH.AccessChart)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
