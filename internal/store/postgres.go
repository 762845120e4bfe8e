package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// Postgres constraint names referenced by the duplicate classifiers.
// They must match the schema in the migrations directory.
const (
	constraintIdentityUsername = "identities_username_key"
	constraintIdentityEmail    = "identities_email_key"
)

// DB wraps the relational connection handle used by the PostgreSQL-backed
// repositories, together with the per-operation timeout.
type DB struct {
	*sql.DB
	opTimeout time.Duration
	logger    *logger.Logger
}

// NewConnectPostgres opens a PostgreSQL connection via the pgx stdlib
// driver, configures the pool, and verifies connectivity with a ping.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err = conn.PingContext(pingCtx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return &DB{
		DB:        conn,
		opTimeout: cfg.OperationTimeout,
		logger:    log,
	}, nil
}

// opContext derives a bounded child context for a single store round-trip.
func (db *DB) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.opTimeout)
}

// uniqueViolationConstraint returns the violated constraint name when err is
// a PostgreSQL unique_violation, or the empty string otherwise.
func uniqueViolationConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName
	}

	return ""
}

// mapIdentityConstraint translates a unique-violation error on the
// identities table into the matching sentinel error.
func mapIdentityConstraint(err error) error {
	switch uniqueViolationConstraint(err) {
	case constraintIdentityUsername:
		return ErrUsernameAlreadyExists
	case constraintIdentityEmail:
		return ErrEmailAlreadyExists
	default:
		return fmt.Errorf("unexpected DB error: %w", err)
	}
}
