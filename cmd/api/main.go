package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"prepwise/internal/ai"
	"prepwise/internal/config"
	"prepwise/internal/db"
	apihttp "prepwise/internal/http"
	"prepwise/internal/identity"
	"prepwise/internal/repository"
	"prepwise/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	identityRepo := repository.NewPgIdentityRepository(pool)
	interviewRepo := repository.NewPgInterviewRepository(pool)
	feedbackRepo := repository.NewPgFeedbackRepository(pool)

	provider := identity.NewLocalProvider(identityRepo, cfg.SessionSecret)

	var loginLimiter service.LoginRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
		}
		cancel()
	}
	if loginLimiter == nil {
		loginLimiter = service.NewLoginRateLimiter(10*time.Minute, 10)
	}

	sessionSvc := service.NewSessionService(logger, provider, userRepo, cfg.SessionSecret)
	authSvc := service.NewAuthService(logger, provider, userRepo, sessionSvc, loginLimiter)
	aiClient := ai.NewHTTPClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, logger)
	feedbackSvc := service.NewFeedbackService(logger, aiClient, interviewRepo, feedbackRepo)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, cfg.IsProduction())
	interviewHandler := apihttp.NewInterviewHandler(logger, interviewRepo, feedbackSvc)
	router := apihttp.NewRouter(logger, sessionSvc, authHandler, interviewHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
