package http

import (
	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/oauth"
	"github.com/darkdrop/darkdrop/internal/service"
)

// Handler holds every dependency the HTTP routes need. The OAuth provider
// is nil when external sign-in is not configured; the related routes then
// answer 404.
type Handler struct {
	services *service.Services
	oauth    oauth.Provider
	cfg      config.Server

	logger *logger.Logger
}

func NewHandler(services *service.Services, provider oauth.Provider, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		oauth:    provider,
		cfg:      cfg,
		logger:   logger,
	}
}
