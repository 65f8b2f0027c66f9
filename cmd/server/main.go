package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ledgerpress/notifier/internal/application"
	"github.com/ledgerpress/notifier/internal/config"
	"github.com/ledgerpress/notifier/internal/infrastructure/postgres"
	"github.com/ledgerpress/notifier/internal/infrastructure/resend"
	kafkaconsumer "github.com/ledgerpress/notifier/internal/kafka"
	transporthttp "github.com/ledgerpress/notifier/internal/transport/http"
)

func main() {
	// ── Logging ──────────────────────────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ── Config ───────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting ledgerpress-notifier")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres ping failed")
	}
	log.Info().Msg("postgres connected")

	// ── Stores, Mailer & SSE Hub ─────────────────────────────────────────────
	posts := postgres.NewPostStore(pool)
	subscribers := postgres.NewSubscriberStore(pool)
	settings := postgres.NewSettingStore(pool)
	mailer := resend.New(cfg.Resend.APIKey)
	hub := transporthttp.NewHub()

	// ── Application Service ───────────────────────────────────────────────────
	svc := application.NewService(posts, subscribers, settings, mailer, hub, application.Options{
		From:           cfg.Resend.From,
		BatchSize:      cfg.Notify.BatchSize,
		BatchDelay:     cfg.Notify.BatchDelay,
		MaxConcurrency: cfg.Notify.MaxConcurrency,
	})

	// ── HTTP Server ───────────────────────────────────────────────────────────
	handler := transporthttp.NewHandler(svc, hub, cfg.Notify.BaseURL)
	router := transporthttp.NewRouter(handler, cfg.Admin.JWTSecret)

	// ── Kafka Consumer ────────────────────────────────────────────────────────
	consumer, err := kafkaconsumer.New(
		cfg.Kafka.Brokers,
		cfg.Kafka.ConsumerGroupID,
		cfg.Kafka.Topics,
		svc,
		cfg.Notify.BaseURL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka consumer")
	}

	go consumer.Start(ctx)
	log.Info().Strs("topics", cfg.Kafka.Topics).Msg("kafka consumer started")

	// ── Start HTTP Server ─────────────────────────────────────────────────────
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	// ── Graceful Shutdown ─────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("ledgerpress-notifier stopped")
}
