package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoFileIndexRepository is the MongoDB-backed implementation of
// [FileIndexRepository]. One document per owner; every mutation is a single
// conditional update ($push, $pull, positional $set) so that concurrent
// uploads, renames, and re-keys on the same owner serialize inside the
// database.
type mongoFileIndexRepository struct {
	coll   *mongo.Collection
	conn   *Mongo
	logger *logger.Logger
}

// NewMongoFileIndexRepository constructs a [FileIndexRepository] backed by
// the "file_indexes" collection of the given connection.
func NewMongoFileIndexRepository(m *Mongo, log *logger.Logger) FileIndexRepository {
	log.Debug().Msg("creating mongo file index repository")
	return &mongoFileIndexRepository{
		coll:   m.db.Collection("file_indexes"),
		conn:   m,
		logger: log,
	}
}

func (r *mongoFileIndexRepository) Find(ctx context.Context, ownerEmail string) (models.FileIndex, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	var index models.FileIndex
	err := r.coll.FindOne(opCtx, bson.M{"email": strings.ToLower(ownerEmail)}).Decode(&index)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.FileIndex{}, ErrFileIndexNotFound
		}
		log.Err(err).Str("func", "*mongoFileIndexRepository.Find").Msg("error: lookup failed")
		return models.FileIndex{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return index, nil
}

func (r *mongoFileIndexRepository) AppendEntries(ctx context.Context, ownerEmail string, entries []models.FileEntry) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	_, err := r.coll.UpdateOne(
		opCtx,
		bson.M{"email": strings.ToLower(ownerEmail)},
		bson.M{
			"$push":        bson.M{"images": bson.M{"$each": entries}},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Err(err).Str("func", "*mongoFileIndexRepository.AppendEntries").Msg("error: upsert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (r *mongoFileIndexRepository) RenameEntry(ctx context.Context, ownerEmail, filePath, fileName string) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	result, err := r.coll.UpdateOne(
		opCtx,
		bson.M{"email": strings.ToLower(ownerEmail), "images.file_path": filePath},
		bson.M{"$set": bson.M{"images.$.file_name": fileName, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		log.Err(err).Str("func", "*mongoFileIndexRepository.RenameEntry").Msg("error: update failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrFileEntryNotFound
	}

	return nil
}

func (r *mongoFileIndexRepository) RemoveEntry(ctx context.Context, ownerEmail, filePath string) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	result, err := r.coll.UpdateOne(
		opCtx,
		bson.M{"email": strings.ToLower(ownerEmail)},
		bson.M{
			"$pull": bson.M{"images": bson.M{"file_path": filePath}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		log.Err(err).Str("func", "*mongoFileIndexRepository.RemoveEntry").Msg("error: update failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if result.ModifiedCount == 0 {
		return ErrFileEntryNotFound
	}

	return nil
}

func (r *mongoFileIndexRepository) RenameOwner(ctx context.Context, oldEmail, newEmail string) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	result, err := r.coll.UpdateOne(
		opCtx,
		bson.M{"email": strings.ToLower(oldEmail)},
		bson.M{"$set": bson.M{"email": strings.ToLower(newEmail), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		// The unique index on email turns a collision with an existing
		// index into a duplicate-key error.
		if mongo.IsDuplicateKeyError(err) {
			return ErrRekeyConflict
		}
		log.Err(err).Str("func", "*mongoFileIndexRepository.RenameOwner").Msg("error: rekey failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrFileIndexNotFound
	}

	return nil
}

func (r *mongoFileIndexRepository) Replace(ctx context.Context, index models.FileIndex) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	index.OwnerEmail = strings.ToLower(index.OwnerEmail)
	index.UpdatedAt = time.Now().UTC()

	_, err := r.coll.ReplaceOne(
		opCtx,
		bson.M{"email": index.OwnerEmail},
		index,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		log.Err(err).Str("func", "*mongoFileIndexRepository.Replace").Msg("error: replace failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (r *mongoFileIndexRepository) Delete(ctx context.Context, ownerEmail string) error {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	if _, err := r.coll.DeleteOne(opCtx, bson.M{"email": strings.ToLower(ownerEmail)}); err != nil {
		log.Err(err).Str("func", "*mongoFileIndexRepository.Delete").Msg("error: delete failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}
