package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clickupai/api"
	"clickupai/common"
	"clickupai/logger"
	"clickupai/telemetry"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = logger.Get()

	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Fatal().Err(err).Msg("Error loading .env file")
		}
	}

	shutdownTracer, err := telemetry.InitTracer(telemetry.ServiceName)
	if err != nil {
		log.Warn().Err(err).Msg("Tracing disabled")
	}

	srv, err := api.RunServer(common.GetServerAddr())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if shutdownTracer != nil {
		shutdownTracer(ctx)
	}
}
