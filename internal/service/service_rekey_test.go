package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/store"
	"github.com/darkdrop/darkdrop/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, url, name string, uploadedAt time.Time) models.FileEntry {
	return models.FileEntry{ImageID: id, FilePath: url, FileName: name, UploadedAt: uploadedAt}
}

func TestRekey_FastPath(t *testing.T) {
	var from, to string
	files := &mockFileIndexRepository{
		renameOwnerFn: func(ctx context.Context, oldEmail, newEmail string) error {
			from, to = oldEmail, newEmail
			return nil
		},
	}
	sync := NewLinkageSynchronizer(files, logger.Nop())

	require.NoError(t, sync.Rekey(context.Background(), "Old@X.com", "New@X.com"))
	assert.Equal(t, "old@x.com", from)
	assert.Equal(t, "new@x.com", to)
}

func TestRekey_SameKeyIsNoop(t *testing.T) {
	var renameCalls int
	files := &mockFileIndexRepository{
		renameOwnerFn: func(ctx context.Context, oldEmail, newEmail string) error {
			renameCalls++
			return nil
		},
	}
	sync := NewLinkageSynchronizer(files, logger.Nop())

	require.NoError(t, sync.Rekey(context.Background(), "alice@x.com", "Alice@X.com"))
	assert.Zero(t, renameCalls)
}

func TestRekey_Idempotent(t *testing.T) {
	// After the first rekey completed the old index is gone; the retry
	// must be a no-op, not an error.
	files := &mockFileIndexRepository{
		renameOwnerFn: func(ctx context.Context, oldEmail, newEmail string) error {
			return store.ErrFileIndexNotFound
		},
	}
	sync := NewLinkageSynchronizer(files, logger.Nop())

	require.NoError(t, sync.Rekey(context.Background(), "old@x.com", "new@x.com"))
	require.NoError(t, sync.Rekey(context.Background(), "old@x.com", "new@x.com"))
}

func TestRekey_ConflictMerges(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	oldIndex := models.FileIndex{
		OwnerEmail: "old@x.com",
		Entries: []models.FileEntry{
			entry("img-1", "/a.png", "old-label.png", newer),
			entry("img-2", "/b.png", "b.png", older),
		},
	}
	newIndex := models.FileIndex{
		OwnerEmail: "new@x.com",
		Entries: []models.FileEntry{
			entry("img-1", "/a.png", "new-label.png", older),
			entry("img-3", "/c.png", "c.png", older),
		},
	}

	var replaced models.FileIndex
	var deletedOwner string
	files := &mockFileIndexRepository{
		renameOwnerFn: func(ctx context.Context, oldEmail, newEmail string) error {
			return store.ErrRekeyConflict
		},
		findFn: func(ctx context.Context, ownerEmail string) (models.FileIndex, error) {
			if ownerEmail == "old@x.com" {
				return oldIndex, nil
			}
			return newIndex, nil
		},
		replaceFn: func(ctx context.Context, index models.FileIndex) error {
			replaced = index
			return nil
		},
		deleteFn: func(ctx context.Context, ownerEmail string) error {
			deletedOwner = ownerEmail
			return nil
		},
	}
	sync := NewLinkageSynchronizer(files, logger.Nop())

	require.NoError(t, sync.Rekey(context.Background(), "old@x.com", "new@x.com"))

	assert.Equal(t, "new@x.com", replaced.OwnerEmail)
	assert.Equal(t, "old@x.com", deletedOwner)
	require.Len(t, replaced.Entries, 3, "merge de-duplicates by image id")

	byID := map[string]models.FileEntry{}
	for _, e := range replaced.Entries {
		byID[e.ImageID] = e
	}
	assert.Equal(t, "old-label.png", byID["img-1"].FileName, "later upload wins the label")
	assert.Contains(t, byID, "img-2")
	assert.Contains(t, byID, "img-3")
}

func TestRekey_MergeRetryAfterOldIndexGone(t *testing.T) {
	files := &mockFileIndexRepository{
		renameOwnerFn: func(ctx context.Context, oldEmail, newEmail string) error {
			return store.ErrRekeyConflict
		},
		findFn: func(ctx context.Context, ownerEmail string) (models.FileIndex, error) {
			return models.FileIndex{}, store.ErrFileIndexNotFound
		},
	}
	sync := NewLinkageSynchronizer(files, logger.Nop())

	require.NoError(t, sync.Rekey(context.Background(), "old@x.com", "new@x.com"))
}

func TestRekey_StoreFailureSurfaces(t *testing.T) {
	files := &mockFileIndexRepository{
		renameOwnerFn: func(ctx context.Context, oldEmail, newEmail string) error {
			return errors.New("connection reset")
		},
	}
	sync := NewLinkageSynchronizer(files, logger.Nop())

	err := sync.Rekey(context.Background(), "old@x.com", "new@x.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner rename failed")
}
