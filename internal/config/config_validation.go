package config

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Defaults applied after all sources are merged. Token lifetimes mirror the
// cookie max-ages set by the HTTP layer.
const (
	defaultHTTPAddress      = "localhost:8080"
	defaultTokenIssuer      = "darkdrop"
	defaultAccessTokenTTL   = time.Hour
	defaultRefreshTokenTTL  = 7 * 24 * time.Hour
	defaultRequestTimeout   = 30 * time.Second
	defaultOperationTimeout = 5 * time.Second
	defaultBlobTimeout      = 60 * time.Second
	defaultMinPasswordLen   = 8
	defaultBcryptCost       = 12
	defaultMaxUploadSize    = 20 << 20 // 20 MB
	defaultMaxFiles         = 5
	defaultDatabaseName     = "darkdrop"
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.App.AccessTokenTTL <= 0 {
		cfg.App.AccessTokenTTL = defaultAccessTokenTTL
	}
	if cfg.App.RefreshTokenTTL <= 0 {
		cfg.App.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	if cfg.App.MinPasswordLength <= 0 {
		cfg.App.MinPasswordLength = defaultMinPasswordLen
	}
	if cfg.App.BcryptCost <= 0 {
		cfg.App.BcryptCost = defaultBcryptCost
	}
	if cfg.Storage.DB.Name == "" {
		cfg.Storage.DB.Name = defaultDatabaseName
	}
	if cfg.Storage.DB.OperationTimeout <= 0 {
		cfg.Storage.DB.OperationTimeout = defaultOperationTimeout
	}
	if cfg.Blob.MaxUploadSize <= 0 {
		cfg.Blob.MaxUploadSize = defaultMaxUploadSize
	}
	if cfg.Blob.MaxFiles <= 0 {
		cfg.Blob.MaxFiles = defaultMaxFiles
	}
	if cfg.Blob.RequestTimeout <= 0 {
		cfg.Blob.RequestTimeout = defaultBlobTimeout
	}
}

func (cfg *StructuredConfig) validate() error {
	if cfg.App.AccessTokenSecret == "" || cfg.App.RefreshTokenSecret == "" {
		return fmt.Errorf("%w: both token secrets must be set", ErrInvalidAppConfigs)
	}
	if cfg.App.AccessTokenSecret == cfg.App.RefreshTokenSecret {
		return fmt.Errorf("%w: access and refresh token secrets must differ", ErrInvalidAppConfigs)
	}
	if cfg.App.BcryptCost < bcrypt.MinCost || cfg.App.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: bcrypt cost %d out of range", ErrInvalidAppConfigs, cfg.App.BcryptCost)
	}
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs)
	}

	return nil
}
