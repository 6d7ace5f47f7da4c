package main

import (
	"go.uber.org/zap"

	"github.com/milkyai/milky-relay/internal/chat"
	"github.com/milkyai/milky-relay/internal/config"
	"github.com/milkyai/milky-relay/internal/db"
	"github.com/milkyai/milky-relay/internal/httpapi"
	"github.com/milkyai/milky-relay/internal/httpapi/handlers"
	"github.com/milkyai/milky-relay/internal/identity"
	"github.com/milkyai/milky-relay/internal/llm"
	"github.com/milkyai/milky-relay/internal/media"
	"github.com/milkyai/milky-relay/internal/models"
	"github.com/milkyai/milky-relay/internal/store/rabbitmq"
	"github.com/milkyai/milky-relay/internal/store/redisstore"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	catalog := models.NewCatalog()

	openRouter := llm.NewOpenRouterClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterSiteURL, cfg.OpenRouterAppName)
	groq := llm.NewGroqClient(cfg.GroqBaseURL, cfg.GroqAPIKey)
	cohere := llm.NewCohereClient(cfg.CohereBaseURL, cfg.CohereAPIKey, cfg.OpenRouterAppName)

	router := llm.NewRouter(llm.Policy{
		MaxAttempts:    cfg.ChatMaxAttempts,
		RetryBase:      cfg.ChatRetryBase,
		RateLimitBase:  cfg.ChatRateLimitBase,
		RequestTimeout: cfg.ChatRequestTimeout,
		CandidateDelay: cfg.ChatCandidateDelay,
	}, logger, openRouter, groq, cohere)

	// Persistence is optional: no DSN means chat history routes answer
	// "not available" and /api/chat skips saving.
	var store *chat.Store
	if cfg.DBDSN != "" {
		gdb, err := db.Connect(cfg.DBDSN)
		if err != nil {
			logger.Fatal("db connect failed", zap.Error(err))
		}
		store, err = chat.NewStore(gdb)
		if err != nil {
			logger.Fatal("store migrate failed", zap.Error(err))
		}
	} else {
		logger.Warn("DB_DSN not set, chat persistence disabled")
	}

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	var verifier identity.Verifier
	if tv := identity.New(cfg.IdentityProjectID, cfg.IdentityCertsURL, rds, cfg.IdentityCacheTTL, logger); tv != nil {
		verifier = tv
	} else {
		logger.Warn("IDENTITY_PROJECT_ID not set, authenticated routes disabled")
	}

	var events *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		events, err = rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			logger.Fatal("rabbit connect failed", zap.Error(err))
		}
		defer events.Close()
	}

	h := handlers.New(handlers.Handler{
		Catalog:    catalog,
		Router:     router,
		OpenRouter: openRouter,
		Groq:       groq,
		Cohere:     cohere,
		Store:      store,
		Events:     events,
		Image:      media.NewImageClient(cfg.ImageAPIURL, cfg.ImageAPIKey),
		Speech:     media.NewSpeechClient(cfg.TTSAPIURL, cfg.TTSAPIKey),
		Edge:       media.NewEdgeTTSClient(cfg.EdgeTTSURL),
		Logger:     logger,
	})

	engine := httpapi.NewRouter(h, verifier, logger)
	logger.Info("relay listening", zap.String("port", cfg.Port))
	if err := engine.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
