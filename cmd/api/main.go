package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"salus-lms/internal/config"
	"salus-lms/internal/db"
	"salus-lms/internal/email"
	apihttp "salus-lms/internal/http"
	"salus-lms/internal/llm"
	"salus-lms/internal/repository"
	"salus-lms/internal/service"

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

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	assessmentRepo := repository.NewPgAssessmentRepository(pool)
	courseRepo := repository.NewPgCourseRepository(pool)
	progressRepo := repository.NewPgProgressRepository(pool)
	teamRepo := repository.NewPgTeamRepository(pool)
	cargoRepo := repository.NewPgCargoRepository(pool)
	activityRepo := repository.NewPgActivityRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEmbeddingModel, logger).
		WithTimeout(time.Duration(cfg.LLMTimeoutSeconds) * time.Second)
	structured := llm.NewStructuredClient(llmClient)

	swotSvc := service.NewSwotService(structured, logger)
	recommendSvc := service.NewRecommendService(structured, logger)
	assessmentSvc := service.NewAssessmentService(swotSvc, recommendSvc, profileRepo, assessmentRepo, courseRepo, logger)
	profileSvc := service.NewProfileService(profileRepo, assessmentRepo)
	searchSvc := service.NewCourseSearchService(llmClient, courseRepo, logger)
	progressSvc := service.NewProgressService(progressRepo, courseRepo)
	activitySvc := service.NewActivityService(activityRepo)
	chatSvc := service.NewChatService(llmClient, messageRepo, profileSvc, logger)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		otpLimiter  service.OTPRateLimiter
		tokenStore  service.RefreshTokenStore
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, 10*time.Minute, 3)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo, profileRepo, emailSender, otpLimiter)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc, activitySvc)
	assessmentHandler := apihttp.NewAssessmentHandler(logger, assessmentSvc, profileSvc)
	courseHandler := apihttp.NewCourseHandler(logger, courseRepo, searchSvc, progressSvc)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc, userRepo, messageRepo)
	adminHandler := apihttp.NewAdminHandler(logger, userSvc, userRepo, teamRepo, cargoRepo, activitySvc)

	router := apihttp.NewRouter(logger, jwtSvc, userHandler, assessmentHandler, courseHandler, chatHandler, adminHandler)

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
