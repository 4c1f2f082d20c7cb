package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prepwise/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	sessions *service.SessionService,
	authH *AuthHandler,
	interviewH *InterviewHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/sign-up", authH.SignUp)
	auth.POST("/sign-in", authH.SignIn)
	auth.POST("/sign-out", authH.SignOut)
	auth.GET("/me", RequireSession(sessions), authH.Me)

	interviews := r.Group("/interviews", RequireSession(sessions))
	interviews.GET("", interviewH.ListMine)
	interviews.GET("/latest", interviewH.ListLatest)
	interviews.POST("", interviewH.Create)
	interviews.GET("/:id", interviewH.GetByID)
	interviews.GET("/:id/feedback", interviewH.GetFeedback)
	interviews.POST("/:id/feedback", interviewH.GenerateFeedback)

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
