package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/trogers1052/trade-journal/internal/api"
	"github.com/trogers1052/trade-journal/internal/auth"
	"github.com/trogers1052/trade-journal/internal/cache"
	"github.com/trogers1052/trade-journal/internal/config"
	"github.com/trogers1052/trade-journal/internal/database"
	"github.com/trogers1052/trade-journal/internal/kafka"
	"github.com/trogers1052/trade-journal/internal/quotes"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("database ready")

	redisStore := cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisStore.Close()

	var primary, secondary quotes.Provider
	primary = quotes.NewAlphaVantage(cfg.Quotes.AlphaVantageKey, log)
	if cfg.Quotes.FinnhubToken != "" {
		secondary = quotes.NewFinnhub(cfg.Quotes.FinnhubToken, log)
	}
	quoteClient := quotes.NewClient(primary, secondary, redisStore, cfg.Quotes.CacheTTL, log)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EntryTopic)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TeamTradeTopic, cfg.Kafka.ConsumerGroupID, db, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("team trade consumer stopped")
		}
	}()

	jwt := auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), TokenTTL: cfg.Auth.TokenTTL}
	handler := api.NewHandler(db, quoteClient, producer, log)
	router := api.SetupRoutes(handler, jwt, log)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
