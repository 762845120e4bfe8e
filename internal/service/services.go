package service

import (
	"github.com/darkdrop/darkdrop/internal/adapter"
	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/store"
)

// Services bundles every service the transport layer depends on.
type Services struct {
	Sessions SessionService
	Tokens   TokenService
	Files    FileService
}

// NewServices wires the full service graph: password hasher and token
// service from app config, linkage synchronizer over the file-index
// repository, and the session negotiator composing all of them.
func NewServices(storages *store.Storages, blob adapter.BlobStore, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	hasher := NewPasswordHasher(cfg.App)
	tokens := NewTokenService(cfg.App, logger)
	linkage := NewLinkageSynchronizer(storages.FileIndexes, logger)

	return &Services{
		Sessions: NewSessionService(storages.Identities, hasher, tokens, linkage, logger),
		Tokens:   tokens,
		Files:    NewFileService(storages.FileIndexes, blob, cfg.Blob, logger),
	}
}
