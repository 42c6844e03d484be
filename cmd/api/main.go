package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"telecom-agent/internal/config"
	"telecom-agent/internal/db"
	apihttp "telecom-agent/internal/http"
	"telecom-agent/internal/llm"
	"telecom-agent/internal/prompt"
	"telecom-agent/internal/repository"
	"telecom-agent/internal/service"
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

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	conversationRepo := repository.NewPgConversationRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	knowledgeRepo := repository.NewPgKnowledgeRepository(pool)

	registry, err := prompt.NewRegistry()
	if err != nil {
		logger.Fatal("prompt registry", zap.Error(err))
	}

	// A provider that fails to construct leaves the chat endpoints answering
	// 503 instead of taking the whole process down.
	provider, err := llm.New(cfg.AIProvider, llm.Options{
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		OpenAIModel:     cfg.OpenAIModel,
		DeepSeekAPIKey:  cfg.DeepSeekAPIKey,
		DeepSeekBaseURL: cfg.DeepSeekBaseURL,
		DeepSeekModel:   cfg.DeepSeekModel,
	}, registry, logger)
	if err != nil {
		logger.Error("ai provider init failed", zap.Error(err), zap.String("provider", cfg.AIProvider))
		provider = nil
	} else {
		logger.Info("ai provider initialized", zap.String("provider", provider.Name()))
	}

	var cache service.ConversationCache
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
			cache = service.NewRedisConversationCache(redisClient, 24*time.Hour)
		}
		cancel()
	}

	// The service is constructed even without a provider: transcript lookups
	// only need storage, and the turn endpoints gate on the provider first.
	chatService := service.NewChatService(conversationRepo, messageRepo, provider, cache, logger)

	chatHandler := apihttp.NewChatHandler(logger, chatService, provider)
	knowledgeHandler := apihttp.NewKnowledgeHandler(logger, knowledgeRepo)
	router := apihttp.NewRouter(logger, chatHandler, knowledgeHandler)

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
