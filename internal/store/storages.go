package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/migrations"
)

// Storages bundles every repository the service layer depends on, together
// with a Close hook for whichever backend is active.
type Storages struct {
	Identities  IdentityRepository
	FileIndexes FileIndexRepository

	closeFn func(ctx context.Context) error
}

// NewStorages connects to the backend named by the DSN scheme and returns
// repositories bound to it. mongodb:// and mongodb+srv:// select the
// document backend; postgres:// and postgresql:// select the relational
// backend and run pending migrations. Any other scheme is rejected with
// [ErrUnsupportedDSN].
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	switch {
	case strings.HasPrefix(cfg.DSN, "mongodb://"), strings.HasPrefix(cfg.DSN, "mongodb+srv://"):
		return newMongoStorages(ctx, cfg, log)
	case strings.HasPrefix(cfg.DSN, "postgres://"), strings.HasPrefix(cfg.DSN, "postgresql://"):
		return newPostgresStorages(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, schemeOf(cfg.DSN))
	}
}

// Close releases the backend connection. Safe to call on a zero-value
// Storages.
func (s *Storages) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}

	return s.closeFn(ctx)
}

func newMongoStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	m, err := NewConnectMongo(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Storages{
		Identities:  NewMongoIdentityRepository(m, log),
		FileIndexes: NewMongoFileIndexRepository(m, log),
		closeFn:     m.Close,
	}, nil
}

func newPostgresStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(db.DB); err != nil {
		log.Err(err).Str("func", "newPostgresStorages").Msg("error applying migrations")
		return nil, err
	}

	return &Storages{
		Identities:  NewPgIdentityRepository(db, log),
		FileIndexes: NewPgFileIndexRepository(db, log),
		closeFn: func(context.Context) error {
			return db.Close()
		},
	}, nil
}

// schemeOf extracts the DSN scheme for error reporting without parsing the
// whole URL.
func schemeOf(dsn string) string {
	if idx := strings.Index(dsn, "://"); idx > 0 {
		return dsn[:idx]
	}

	return dsn
}
