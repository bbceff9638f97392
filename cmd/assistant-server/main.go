package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"commission-assistant-backend/internal/chatbot"
	"commission-assistant-backend/internal/config"
	"commission-assistant-backend/internal/db"
	"commission-assistant-backend/internal/docgen"
	"commission-assistant-backend/internal/llm"
	"commission-assistant-backend/internal/logger"
	"commission-assistant-backend/internal/mailer"
	"commission-assistant-backend/internal/recordings"
	"commission-assistant-backend/internal/server"
	"commission-assistant-backend/internal/store"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	var dataStore server.DataStore
	if cfg.DatabaseURL == "" {
		log.Warn("DB_URL is not set, running on the in-memory store")
		dataStore = store.NewMemoryStore()
	} else {
		database, err := db.New(cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer database.Close()

		if err := database.RunMigrations("./migrations"); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		dataStore = store.NewDatabaseStore(database)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		cancel()
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	cancel()

	sessions := store.NewSessionStore(redisClient, cfg.SessionTTL)

	opts := llm.Options{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.Model,
	}
	if spec, err := llm.LoadPromptSpec(cfg.PromptSpec); err != nil {
		log.Warn("failed to load prompt spec, using defaults", zap.Error(err))
	} else {
		opts = spec.Apply(opts)
	}
	completer := llm.New(opts, log)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn("invalid APP_TIMEZONE, using UTC", zap.String("timezone", cfg.Timezone))
		loc = time.UTC
	}

	links := docgen.Links{BaseURL: cfg.BaseURL}
	handlers := chatbot.NewHandlers(dataStore, nil, links, loc, log)
	chatService := chatbot.NewService(completer, handlers, log)
	recordingService := recordings.NewService(completer, completer, log)

	mail, err := mailer.NewSESMailer(context.Background(), cfg.AWSRegion, cfg.MailSender, log)
	if err != nil {
		log.Fatal("failed to initialize mailer", zap.Error(err))
	}

	srv := server.NewServer(cfg, dataStore, sessions, chatService, recordingService, mail, log)

	log.Info("server listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, srv.Router()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
