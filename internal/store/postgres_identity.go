package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/models"
)

// identityColumns is the canonical column order scanned by every identity
// query in this file.
var identityColumns = []string{
	"id", "username", "email", "secret_hash", "display_name",
	"token_version", "created_at", "updated_at",
}

// pgIdentityRepository is the PostgreSQL-backed implementation of
// [IdentityRepository]. The unique constraints on username and email carry
// the same atomicity role the unique indexes play in the document backend.
type pgIdentityRepository struct {
	db      *DB
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

// NewPgIdentityRepository constructs an [IdentityRepository] backed by the
// provided database connection.
func NewPgIdentityRepository(db *DB, log *logger.Logger) IdentityRepository {
	log.Debug().Msg("creating postgres identity repository")
	return &pgIdentityRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  log,
	}
}

func (r *pgIdentityRepository) Create(ctx context.Context, identity models.Identity) (models.Identity, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	identity.Email = strings.ToLower(identity.Email)

	query, args, err := r.builder.
		Insert("identities").
		Columns(identityColumns...).
		Values(
			identity.ID, identity.Username, identity.Email,
			nullableString(identity.SecretHash), nullableString(identity.DisplayName),
			identity.TokenVersion, identity.CreatedAt, identity.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(identityColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Identity{}, fmt.Errorf("error building sql query: %w", err)
	}

	created, err := scanIdentity(r.db.QueryRowContext(opCtx, query, args...))
	if err != nil {
		if constraint := uniqueViolationConstraint(err); constraint != "" {
			return models.Identity{}, mapIdentityConstraint(err)
		}
		log.Err(err).Str("func", "*pgIdentityRepository.Create").Msg("error: insert failed")
		return models.Identity{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

func (r *pgIdentityRepository) FindByID(ctx context.Context, id string) (models.Identity, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *pgIdentityRepository) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	return r.findOne(ctx, sq.Eq{"email": strings.ToLower(email)})
}

func (r *pgIdentityRepository) FindByUsername(ctx context.Context, username string) (models.Identity, error) {
	return r.findOne(ctx, sq.Eq{"username": username})
}

func (r *pgIdentityRepository) FindByLogin(ctx context.Context, usernameOrEmail string) (models.Identity, error) {
	return r.findOne(ctx, sq.Or{
		sq.Eq{"username": usernameOrEmail},
		sq.Eq{"email": strings.ToLower(usernameOrEmail)},
	})
}

func (r *pgIdentityRepository) Update(ctx context.Context, identity models.Identity) (models.Identity, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	identity.Email = strings.ToLower(identity.Email)

	update := r.builder.
		Update("identities").
		Set("username", identity.Username).
		Set("email", identity.Email).
		Set("updated_at", identity.UpdatedAt).
		Where(sq.Eq{"id": identity.ID}).
		Suffix("RETURNING " + strings.Join(identityColumns, ", "))
	if identity.SecretHash != "" {
		update = update.Set("secret_hash", identity.SecretHash)
	}
	if identity.DisplayName != "" {
		update = update.Set("display_name", identity.DisplayName)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return models.Identity{}, fmt.Errorf("error building sql query: %w", err)
	}

	updated, err := scanIdentity(r.db.QueryRowContext(opCtx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Identity{}, ErrIdentityNotFound
		}
		if constraint := uniqueViolationConstraint(err); constraint != "" {
			return models.Identity{}, mapIdentityConstraint(err)
		}
		log.Err(err).Str("func", "*pgIdentityRepository.Update").Msg("error: update failed")
		return models.Identity{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return updated, nil
}

func (r *pgIdentityRepository) BumpTokenVersion(ctx context.Context, id string) (int64, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	query, args, err := r.builder.
		Update("identities").
		Set("token_version", sq.Expr("token_version + 1")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING token_version").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building sql query: %w", err)
	}

	var version int64
	if err := r.db.QueryRowContext(opCtx, query, args...).Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrIdentityNotFound
		}
		log.Err(err).Str("func", "*pgIdentityRepository.BumpTokenVersion").Msg("error: update failed")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return version, nil
}

func (r *pgIdentityRepository) findOne(ctx context.Context, where any) (models.Identity, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	query, args, err := r.builder.
		Select(identityColumns...).
		From("identities").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return models.Identity{}, fmt.Errorf("error building sql query: %w", err)
	}

	identity, err := scanIdentity(r.db.QueryRowContext(opCtx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Identity{}, ErrIdentityNotFound
		}
		log.Err(err).Str("func", "*pgIdentityRepository.findOne").Msg("error: lookup failed")
		return models.Identity{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return identity, nil
}

// scanIdentity reads one identity row in the identityColumns order.
func scanIdentity(row *sql.Row) (models.Identity, error) {
	var identity models.Identity
	var secretHash, displayName sql.NullString

	err := row.Scan(
		&identity.ID, &identity.Username, &identity.Email,
		&secretHash, &displayName,
		&identity.TokenVersion, &identity.CreatedAt, &identity.UpdatedAt,
	)
	if err != nil {
		return models.Identity{}, err
	}

	identity.SecretHash = secretHash.String
	identity.DisplayName = displayName.String

	return identity, nil
}

// nullableString maps the empty string to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
