// Package handler aggregates the transport handlers of the application.
package handler

import (
	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/handler/http"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/oauth"
	"github.com/darkdrop/darkdrop/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, provider oauth.Provider, cfg config.Server, logger *logger.Logger) *Handlers {
	logger.Info().Msg("creating new handlers...")

	return &Handlers{
		HTTP: http.NewHandler(services, provider, cfg, logger),
	}
}
