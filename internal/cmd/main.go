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
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var fileConfig Config
	configPath := getEnv("CONFIG_PATH", "config.yaml")
	if cfg, err := loadConfig(configPath); err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("no config file, using env and defaults")
	} else {
		fileConfig = *cfg
	}

	port := resolve("PORT", fileConfig.Server.Port, "8080")
	pepper := resolve("VIEWER_TOKEN_PEPPER", fileConfig.Server.Pepper, "dev-pepper")
	natsURL := resolve("NATS_URL", fileConfig.NATS.URL, "nats://localhost:4222")

	database, err := setupDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer database.Close()

	services := setupServices(database, natsURL, pepper)
	defer services.Close()

	server := setupServer(services, port)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("API server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("API server shutdown complete")
}
