package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/models"
)

// pgFileIndexRepository is the PostgreSQL-backed implementation of
// [FileIndexRepository]. Instead of one document per owner it stores one
// row per file entry; the index is reconstructed on read. Re-keying is a
// single UPDATE over the owner column, so the merge path of the document
// backend has no relational counterpart: the primary key on image_id
// already guarantees entry-level uniqueness.
type pgFileIndexRepository struct {
	db      *DB
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

// NewPgFileIndexRepository constructs a [FileIndexRepository] backed by the
// provided database connection.
func NewPgFileIndexRepository(db *DB, log *logger.Logger) FileIndexRepository {
	log.Debug().Msg("creating postgres file index repository")
	return &pgFileIndexRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  log,
	}
}

func (r *pgFileIndexRepository) Find(ctx context.Context, ownerEmail string) (models.FileIndex, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	query, args, err := r.builder.
		Select("image_id", "file_path", "file_name", "uploaded_at").
		From("file_entries").
		Where(sq.Eq{"owner_email": strings.ToLower(ownerEmail)}).
		OrderBy("uploaded_at").
		ToSql()
	if err != nil {
		return models.FileIndex{}, fmt.Errorf("error building sql query: %w", err)
	}

	rows, err := r.db.QueryContext(opCtx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*pgFileIndexRepository.Find").Msg("error: lookup failed")
		return models.FileIndex{}, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	index := models.FileIndex{OwnerEmail: strings.ToLower(ownerEmail)}
	for rows.Next() {
		var entry models.FileEntry
		if err := rows.Scan(&entry.ImageID, &entry.FilePath, &entry.FileName, &entry.UploadedAt); err != nil {
			return models.FileIndex{}, fmt.Errorf("failed to scan file entry row: %w", err)
		}
		index.Entries = append(index.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return models.FileIndex{}, fmt.Errorf("failed to scan file entry rows: %w", err)
	}

	if len(index.Entries) == 0 {
		return models.FileIndex{}, ErrFileIndexNotFound
	}

	return index, nil
}

func (r *pgFileIndexRepository) AppendEntries(ctx context.Context, ownerEmail string, entries []models.FileEntry) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	insert := r.builder.
		Insert("file_entries").
		Columns("image_id", "owner_email", "file_path", "file_name", "uploaded_at")
	for _, entry := range entries {
		insert = insert.Values(entry.ImageID, strings.ToLower(ownerEmail), entry.FilePath, entry.FileName, entry.UploadedAt)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	if _, err := r.db.ExecContext(opCtx, query, args...); err != nil {
		log.Err(err).Str("func", "*pgFileIndexRepository.AppendEntries").Msg("error: insert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (r *pgFileIndexRepository) RenameEntry(ctx context.Context, ownerEmail, filePath, fileName string) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	query, args, err := r.builder.
		Update("file_entries").
		Set("file_name", fileName).
		Where(sq.Eq{"owner_email": strings.ToLower(ownerEmail), "file_path": filePath}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	return r.execExpectingMatch(opCtx, log, query, args, ErrFileEntryNotFound)
}

func (r *pgFileIndexRepository) RemoveEntry(ctx context.Context, ownerEmail, filePath string) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	query, args, err := r.builder.
		Delete("file_entries").
		Where(sq.Eq{"owner_email": strings.ToLower(ownerEmail), "file_path": filePath}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	return r.execExpectingMatch(opCtx, log, query, args, ErrFileEntryNotFound)
}

func (r *pgFileIndexRepository) RenameOwner(ctx context.Context, oldEmail, newEmail string) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	query, args, err := r.builder.
		Update("file_entries").
		Set("owner_email", strings.ToLower(newEmail)).
		Where(sq.Eq{"owner_email": strings.ToLower(oldEmail)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	return r.execExpectingMatch(opCtx, log, query, args, ErrFileIndexNotFound)
}

func (r *pgFileIndexRepository) Replace(ctx context.Context, index models.FileIndex) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	deleteQuery, deleteArgs, err := r.builder.
		Delete("file_entries").
		Where(sq.Eq{"owner_email": strings.ToLower(index.OwnerEmail)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}
	if _, err := tx.ExecContext(opCtx, deleteQuery, deleteArgs...); err != nil {
		log.Err(err).Str("func", "*pgFileIndexRepository.Replace").Msg("error: delete failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if len(index.Entries) > 0 {
		insert := r.builder.
			Insert("file_entries").
			Columns("image_id", "owner_email", "file_path", "file_name", "uploaded_at")
		for _, entry := range index.Entries {
			insert = insert.Values(entry.ImageID, strings.ToLower(index.OwnerEmail), entry.FilePath, entry.FileName, entry.UploadedAt)
		}
		insertQuery, insertArgs, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("error building sql query: %w", err)
		}
		if _, err := tx.ExecContext(opCtx, insertQuery, insertArgs...); err != nil {
			log.Err(err).Str("func", "*pgFileIndexRepository.Replace").Msg("error: insert failed")
			return fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pgFileIndexRepository) Delete(ctx context.Context, ownerEmail string) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.db.opContext(ctx)
	defer cancel()

	query, args, err := r.builder.
		Delete("file_entries").
		Where(sq.Eq{"owner_email": strings.ToLower(ownerEmail)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	if _, err := r.db.ExecContext(opCtx, query, args...); err != nil {
		log.Err(err).Str("func", "*pgFileIndexRepository.Delete").Msg("error: delete failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// execExpectingMatch runs a DML statement and converts "zero rows affected"
// into the provided sentinel error.
func (r *pgFileIndexRepository) execExpectingMatch(ctx context.Context, log *logger.Logger, query string, args []any, notFound error) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*pgFileIndexRepository.execExpectingMatch").Msg("error: statement failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return notFound
	}

	return nil
}
