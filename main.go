package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazar-backend/internal/blob"
	"bazar-backend/internal/config"
	"bazar-backend/internal/db"
	"bazar-backend/internal/logger"
	"bazar-backend/internal/mailer"
	"bazar-backend/internal/router"

	"github.com/rs/zerolog"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		boot.Fatal().Err(err).Msg("Invalid configuration")
	}

	log, logCloser, err := logger.InitLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		boot.Fatal().Err(err).Msg("Logger setup failed")
	}
	defer logCloser.Close()

	log.Info().Msg("Application starting")

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	st, err := db.Open(startCtx, cfg, log)
	if err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Database connection failed")
	}

	images, err := blob.NewS3Store(startCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Object storage setup failed")
	}

	mail := mailer.NewSMTPSender(cfg, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(st, mail, images, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	if err := st.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}

	log.Info().Msg("Server stopped")
}
