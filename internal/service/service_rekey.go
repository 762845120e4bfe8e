package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/store"
	"github.com/darkdrop/darkdrop/models"
)

// linkageSynchronizer is the concrete implementation of
// LinkageSynchronizer over the file-index repository.
type linkageSynchronizer struct {
	files store.FileIndexRepository

	logger *logger.Logger
}

// NewLinkageSynchronizer constructs a LinkageSynchronizer backed by the
// given file-index repository.
func NewLinkageSynchronizer(files store.FileIndexRepository, logger *logger.Logger) LinkageSynchronizer {
	return &linkageSynchronizer{files: files, logger: logger}
}

// Rekey moves the index owned by oldOwnerKey under newOwnerKey.
//
// The fast path is a single atomic owner update. When newOwnerKey already
// owns an index, the two are merged: entries concatenated, de-duplicated
// by id, with the later upload winning the label. Idempotency: a missing
// old index means a previous attempt already completed, so the call is a
// no-op rather than an error — retries after a crash must be safe.
func (l *linkageSynchronizer) Rekey(ctx context.Context, oldOwnerKey, newOwnerKey string) error {
	log := logger.FromContext(ctx)

	oldOwnerKey = strings.ToLower(oldOwnerKey)
	newOwnerKey = strings.ToLower(newOwnerKey)
	if oldOwnerKey == newOwnerKey {
		return nil
	}

	err := l.files.RenameOwner(ctx, oldOwnerKey, newOwnerKey)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrFileIndexNotFound):
		return nil
	case errors.Is(err, store.ErrRekeyConflict):
		return l.merge(ctx, oldOwnerKey, newOwnerKey)
	default:
		log.Err(err).Str("func", "*linkageSynchronizer.Rekey").Msg("owner rename failed")
		return fmt.Errorf("owner rename failed: %w", err)
	}
}

// merge combines the old owner's index into the one already held by the
// new owner, then removes the old index.
func (l *linkageSynchronizer) merge(ctx context.Context, oldOwnerKey, newOwnerKey string) error {
	log := logger.FromContext(ctx)

	oldIndex, err := l.files.Find(ctx, oldOwnerKey)
	if err != nil {
		if errors.Is(err, store.ErrFileIndexNotFound) {
			// A concurrent retry finished the merge first.
			return nil
		}
		return fmt.Errorf("loading index for merge failed: %w", err)
	}

	newIndex, err := l.files.Find(ctx, newOwnerKey)
	if err != nil {
		return fmt.Errorf("loading index for merge failed: %w", err)
	}

	merged := models.FileIndex{
		OwnerEmail: newOwnerKey,
		Entries:    mergeEntries(oldIndex.Entries, newIndex.Entries),
		CreatedAt:  newIndex.CreatedAt,
	}

	if err := l.files.Replace(ctx, merged); err != nil {
		log.Err(err).Str("func", "*linkageSynchronizer.merge").Msg("merged index write failed")
		return fmt.Errorf("merged index write failed: %w", err)
	}

	if err := l.files.Delete(ctx, oldOwnerKey); err != nil {
		return fmt.Errorf("removing merged-away index failed: %w", err)
	}

	return nil
}

// mergeEntries concatenates two entry collections, de-duplicating by image
// id. When both sides carry the same id, the entry with the later upload
// timestamp wins. First-seen order is preserved.
func mergeEntries(a, b []models.FileEntry) []models.FileEntry {
	merged := make([]models.FileEntry, 0, len(a)+len(b))
	position := make(map[string]int, len(a)+len(b))

	for _, entry := range append(append([]models.FileEntry{}, a...), b...) {
		at, seen := position[entry.ImageID]
		if !seen {
			position[entry.ImageID] = len(merged)
			merged = append(merged, entry)
			continue
		}
		if entry.UploadedAt.After(merged[at].UploadedAt) {
			merged[at] = entry
		}
	}

	return merged
}
