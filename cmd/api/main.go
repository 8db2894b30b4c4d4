package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tutor-match/internal/config"
	"tutor-match/internal/db"
	apihttp "tutor-match/internal/http"
	"tutor-match/internal/llm"
	"tutor-match/internal/repository"
	"tutor-match/internal/service"
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

	learnerRepo := repository.NewPgLearnerRepository(pool)
	assessmentRepo := repository.NewPgAssessmentRepository(pool)
	tutorRepo := repository.NewPgTutorRepository(pool)

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)

	// Cache y rate limiter: redis si esta configurado, memoria si no.
	matchCache := service.NewMemoryMatchCache()
	var matchLimiter service.MatchRateLimiter = service.NewMemoryMatchRateLimiter(
		time.Duration(cfg.MatchRateWindowMinutes)*time.Minute,
		cfg.MatchRateLimit,
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory cache and limiter", zap.Error(err))
		} else {
			matchCache = service.NewRedisMatchCache(redisClient)
			matchLimiter = service.NewRedisMatchRateLimiter(
				redisClient,
				time.Duration(cfg.MatchRateWindowMinutes)*time.Minute,
				cfg.MatchRateLimit,
			)
		}
		cancel()
	}

	scorer := service.NewCandidateScorer(cfg.MatchCognitiveWeight, cfg.MatchSubjectWeight)
	ranker := service.NewAIRanker(
		llmClient,
		logger,
		time.Duration(cfg.MatchAITimeoutSeconds)*time.Second,
		cfg.MatchAIShortlistSize,
	)
	matchSvc := service.NewMatchService(
		logger,
		learnerRepo,
		assessmentRepo,
		tutorRepo,
		scorer,
		ranker,
		matchCache,
		matchLimiter,
		time.Duration(cfg.MatchCacheTTLMinutes)*time.Minute,
	)

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	authHandler := apihttp.NewAuthHandler(logger, learnerRepo, jwtSvc)
	matchHandler := apihttp.NewMatchHandler(logger, matchSvc)
	router := apihttp.NewRouter(logger, jwtSvc, authHandler, matchHandler)

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
