package main

import (
	"context"
	"fmt"

	"github.com/darkdrop/darkdrop/internal/adapter"
	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/handler"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/oauth"
	"github.com/darkdrop/darkdrop/internal/server"
	"github.com/darkdrop/darkdrop/internal/service"
	"github.com/darkdrop/darkdrop/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("darkdrop-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	blob, err := adapter.NewImageKitBlobStore(cfg.Blob, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating blob store adapter")
	}

	var provider oauth.Provider
	if cfg.OAuth.Google.Enabled() {
		provider = oauth.NewGoogleProvider(cfg.OAuth.Google, log)
		log.Info().Msg("google sign-in enabled")
	}

	services := service.NewServices(storages, blob, cfg, log)
	handlers := handler.NewHandlers(services, provider, cfg.Server, log)

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()

	if err := storages.Close(ctx); err != nil {
		log.Err(err).Msg("error closing storages")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
