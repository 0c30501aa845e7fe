package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/diogomassis/checkout-upsale/cmd/handlers"
	"github.com/diogomassis/checkout-upsale/internal/env"
	"github.com/diogomassis/checkout-upsale/internal/server"
	"github.com/diogomassis/checkout-upsale/internal/services/cache"
	"github.com/diogomassis/checkout-upsale/internal/services/events"
	"github.com/diogomassis/checkout-upsale/internal/services/orchestrator"
	"github.com/diogomassis/checkout-upsale/internal/services/paypal"
)

func main() {
	cfg, err := env.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := newLogger(cfg)

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("port", cfg.Port).
		Bool("credentials", cfg.HasCredentials()).
		Bool("redis", cfg.RedisAddr != "").
		Bool("kafka", len(cfg.KafkaBrokers) > 0).
		Msg("configuration loaded")
	if !cfg.HasCredentials() {
		logger.Warn().Msg("PAYPAL_CLIENT_ID or PAYPAL_CLIENT_SECRET is not set, provider calls will fail")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize kafka producer")
		}
		publisher = kafka
	}
	defer publisher.Close()

	var requests orchestrator.RequestIDStore
	if cfg.RedisAddr != "" {
		store := cache.NewRequestIDStore(cfg.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := store.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("redis not reachable yet, idempotency keys fall back to fresh ids")
		}
		cancel()
		defer store.Close()
		requests = store
	}

	client := paypal.NewClientFromConfig(cfg, logger)
	checkout := orchestrator.NewCheckoutOrchestrator(client, publisher, requests, logger)
	app := handlers.NewApp(handlers.New(checkout, client, cfg, logger), logger)

	var health *server.HealthServer
	if cfg.GrpcAddr != "" {
		lis, err := net.Listen("tcp", cfg.GrpcAddr)
		if err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.GrpcAddr).Msg("failed to listen for grpc")
		}
		health = server.NewHealthServer(logger)
		go func() {
			if err := health.Serve(lis); err != nil {
				logger.Error().Err(err).Msg("grpc health server stopped")
			}
		}()
		health.SetServing(true)
	}

	go func() {
		logger.Info().Msgf("server listening at http://localhost:%s/", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down gracefully...")

	if health != nil {
		health.Stop()
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}

func newLogger(cfg *env.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
}
