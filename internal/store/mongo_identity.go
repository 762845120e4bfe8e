package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoIdentityRepository is the MongoDB-backed implementation of
// [IdentityRepository]. Uniqueness of username and email rests on the
// collection's unique indexes, so Create and Update are race-free without
// any preparatory reads.
type mongoIdentityRepository struct {
	coll   *mongo.Collection
	conn   *Mongo
	logger *logger.Logger
}

// NewMongoIdentityRepository constructs an [IdentityRepository] backed by
// the "identities" collection of the given connection.
func NewMongoIdentityRepository(m *Mongo, log *logger.Logger) IdentityRepository {
	log.Debug().Msg("creating mongo identity repository")
	return &mongoIdentityRepository{
		coll:   m.db.Collection("identities"),
		conn:   m,
		logger: log,
	}
}

func (r *mongoIdentityRepository) Create(ctx context.Context, identity models.Identity) (models.Identity, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	identity.Email = strings.ToLower(identity.Email)

	if _, err := r.coll.InsertOne(opCtx, identity); err != nil {
		switch duplicateKeyIndex(err) {
		case idxIdentityUsername:
			return models.Identity{}, ErrUsernameAlreadyExists
		case idxIdentityEmail:
			return models.Identity{}, ErrEmailAlreadyExists
		case idxUnknown:
			return models.Identity{}, ErrIdentityAlreadyExists
		default:
			log.Err(err).Str("func", "*mongoIdentityRepository.Create").Msg("error: insert failed")
			return models.Identity{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return identity, nil
}

func (r *mongoIdentityRepository) FindByID(ctx context.Context, id string) (models.Identity, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoIdentityRepository) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *mongoIdentityRepository) FindByUsername(ctx context.Context, username string) (models.Identity, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoIdentityRepository) FindByLogin(ctx context.Context, usernameOrEmail string) (models.Identity, error) {
	return r.findOne(ctx, bson.M{"$or": []bson.M{
		{"username": usernameOrEmail},
		{"email": strings.ToLower(usernameOrEmail)},
	}})
}

func (r *mongoIdentityRepository) Update(ctx context.Context, identity models.Identity) (models.Identity, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	identity.Email = strings.ToLower(identity.Email)

	set := bson.M{
		"username":   identity.Username,
		"email":      identity.Email,
		"updated_at": identity.UpdatedAt,
	}
	if identity.SecretHash != "" {
		set["secret_hash"] = identity.SecretHash
	}
	if identity.DisplayName != "" {
		set["display_name"] = identity.DisplayName
	}

	result, err := r.coll.UpdateByID(opCtx, identity.ID, bson.M{"$set": set})
	if err != nil {
		switch duplicateKeyIndex(err) {
		case idxIdentityUsername:
			return models.Identity{}, ErrUsernameAlreadyExists
		case idxIdentityEmail:
			return models.Identity{}, ErrEmailAlreadyExists
		case idxUnknown:
			return models.Identity{}, ErrIdentityAlreadyExists
		default:
			log.Err(err).Str("func", "*mongoIdentityRepository.Update").Msg("error: update failed")
			return models.Identity{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}
	if result.MatchedCount == 0 {
		return models.Identity{}, ErrIdentityNotFound
	}

	return r.findOne(ctx, bson.M{"_id": identity.ID})
}

func (r *mongoIdentityRepository) BumpTokenVersion(ctx context.Context, id string) (int64, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	after := options.After
	result := r.coll.FindOneAndUpdate(
		opCtx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"token_version": 1}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	)

	var identity models.Identity
	if err := result.Decode(&identity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrIdentityNotFound
		}
		log.Err(err).Str("func", "*mongoIdentityRepository.BumpTokenVersion").Msg("error: update failed")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return identity.TokenVersion, nil
}

func (r *mongoIdentityRepository) findOne(ctx context.Context, filter bson.M) (models.Identity, error) {
	log := logger.FromContext(ctx)

	opCtx, cancel := r.conn.opContext(ctx)
	defer cancel()

	var identity models.Identity
	if err := r.coll.FindOne(opCtx, filter).Decode(&identity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Identity{}, ErrIdentityNotFound
		}
		log.Err(err).Str("func", "*mongoIdentityRepository.findOne").Msg("error: lookup failed")
		return models.Identity{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return identity, nil
}
