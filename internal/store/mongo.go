package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names used by the duplicate-key classifier below. They must match
// the names set in ensureIndexes.
const (
	idxIdentityUsername = "username_1"
	idxIdentityEmail    = "email_1"
	idxFileIndexEmail   = "email_1"

	// idxUnknown marks a duplicate-key error that names no known index.
	idxUnknown = "unknown"
)

// Mongo wraps a connected MongoDB client together with the database handle
// and the per-operation timeout every repository call is bounded by.
type Mongo struct {
	client    *mongo.Client
	db        *mongo.Database
	opTimeout time.Duration
	logger    *logger.Logger
}

// NewConnectMongo establishes a MongoDB connection, pings it, and creates
// the unique indexes both repositories depend on for their atomicity
// guarantees.
func NewConnectMongo(ctx context.Context, cfg config.DB, log *logger.Logger) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.DSN))
	if err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		log.Err(err).Str("func", "NewConnectMongo").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectMongo").Msg("connected to database successfully")

	m := &Mongo{
		client:    client,
		db:        client.Database(cfg.Name),
		opTimeout: cfg.OperationTimeout,
		logger:    log,
	}

	if err := m.ensureIndexes(connectCtx); err != nil {
		return nil, fmt.Errorf("error creating indexes: %w", err)
	}

	return m, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes creates the unique indexes that make duplicate detection a
// property of the insert itself instead of a read-then-write sequence.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	identityIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxIdentityUsername),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxIdentityEmail),
		},
	}
	if _, err := m.db.Collection("identities").Indexes().CreateMany(ctx, identityIndexes); err != nil {
		return err
	}

	fileIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(idxFileIndexEmail),
		},
	}
	if _, err := m.db.Collection("file_indexes").Indexes().CreateMany(ctx, fileIndexes); err != nil {
		return err
	}

	return nil
}

// opContext derives a bounded child context for a single store round-trip.
func (m *Mongo) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.opTimeout)
}

// duplicateKeyIndex returns the name of the unique index violated by err,
// idxUnknown for a duplicate-key error it cannot attribute to a specific
// index, or the empty string when err is not a duplicate-key error.
func duplicateKeyIndex(err error) string {
	if !mongo.IsDuplicateKeyError(err) {
		return ""
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, writeErr := range we.WriteErrors {
			switch {
			case strings.Contains(writeErr.Message, idxIdentityUsername):
				return idxIdentityUsername
			case strings.Contains(writeErr.Message, idxIdentityEmail):
				return idxIdentityEmail
			}
		}
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch {
		case strings.Contains(ce.Message, idxIdentityUsername):
			return idxIdentityUsername
		case strings.Contains(ce.Message, idxIdentityEmail):
			return idxIdentityEmail
		}
	}

	return idxUnknown
}
