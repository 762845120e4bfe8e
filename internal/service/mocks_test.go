package service

import (
	"context"

	"github.com/darkdrop/darkdrop/models"
)

// ─────────────────────────────────────────────
// Mock: store.IdentityRepository
// ─────────────────────────────────────────────

type mockIdentityRepository struct {
	createFn           func(ctx context.Context, identity models.Identity) (models.Identity, error)
	findByIDFn         func(ctx context.Context, id string) (models.Identity, error)
	findByEmailFn      func(ctx context.Context, email string) (models.Identity, error)
	findByUsernameFn   func(ctx context.Context, username string) (models.Identity, error)
	findByLoginFn      func(ctx context.Context, usernameOrEmail string) (models.Identity, error)
	updateFn           func(ctx context.Context, identity models.Identity) (models.Identity, error)
	bumpTokenVersionFn func(ctx context.Context, id string) (int64, error)
}

func (m *mockIdentityRepository) Create(ctx context.Context, identity models.Identity) (models.Identity, error) {
	if m.createFn != nil {
		return m.createFn(ctx, identity)
	}
	return identity, nil
}

func (m *mockIdentityRepository) FindByID(ctx context.Context, id string) (models.Identity, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return models.Identity{}, nil
}

func (m *mockIdentityRepository) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return models.Identity{}, nil
}

func (m *mockIdentityRepository) FindByUsername(ctx context.Context, username string) (models.Identity, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return models.Identity{}, nil
}

func (m *mockIdentityRepository) FindByLogin(ctx context.Context, usernameOrEmail string) (models.Identity, error) {
	if m.findByLoginFn != nil {
		return m.findByLoginFn(ctx, usernameOrEmail)
	}
	return models.Identity{}, nil
}

func (m *mockIdentityRepository) Update(ctx context.Context, identity models.Identity) (models.Identity, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, identity)
	}
	return identity, nil
}

func (m *mockIdentityRepository) BumpTokenVersion(ctx context.Context, id string) (int64, error) {
	if m.bumpTokenVersionFn != nil {
		return m.bumpTokenVersionFn(ctx, id)
	}
	return 1, nil
}

// ─────────────────────────────────────────────
// Mock: store.FileIndexRepository
// ─────────────────────────────────────────────

type mockFileIndexRepository struct {
	findFn          func(ctx context.Context, ownerEmail string) (models.FileIndex, error)
	appendEntriesFn func(ctx context.Context, ownerEmail string, entries []models.FileEntry) error
	renameEntryFn   func(ctx context.Context, ownerEmail, filePath, fileName string) error
	removeEntryFn   func(ctx context.Context, ownerEmail, filePath string) error
	renameOwnerFn   func(ctx context.Context, oldEmail, newEmail string) error
	replaceFn       func(ctx context.Context, index models.FileIndex) error
	deleteFn        func(ctx context.Context, ownerEmail string) error
}

func (m *mockFileIndexRepository) Find(ctx context.Context, ownerEmail string) (models.FileIndex, error) {
	if m.findFn != nil {
		return m.findFn(ctx, ownerEmail)
	}
	return models.FileIndex{}, nil
}

func (m *mockFileIndexRepository) AppendEntries(ctx context.Context, ownerEmail string, entries []models.FileEntry) error {
	if m.appendEntriesFn != nil {
		return m.appendEntriesFn(ctx, ownerEmail, entries)
	}
	return nil
}

func (m *mockFileIndexRepository) RenameEntry(ctx context.Context, ownerEmail, filePath, fileName string) error {
	if m.renameEntryFn != nil {
		return m.renameEntryFn(ctx, ownerEmail, filePath, fileName)
	}
	return nil
}

func (m *mockFileIndexRepository) RemoveEntry(ctx context.Context, ownerEmail, filePath string) error {
	if m.removeEntryFn != nil {
		return m.removeEntryFn(ctx, ownerEmail, filePath)
	}
	return nil
}

func (m *mockFileIndexRepository) RenameOwner(ctx context.Context, oldEmail, newEmail string) error {
	if m.renameOwnerFn != nil {
		return m.renameOwnerFn(ctx, oldEmail, newEmail)
	}
	return nil
}

func (m *mockFileIndexRepository) Replace(ctx context.Context, index models.FileIndex) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, index)
	}
	return nil
}

func (m *mockFileIndexRepository) Delete(ctx context.Context, ownerEmail string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerEmail)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: adapter.BlobStore
// ─────────────────────────────────────────────

type mockBlobStore struct {
	uploadFn func(ctx context.Context, file models.UploadFile) (models.UploadedBlob, error)
}

func (m *mockBlobStore) Upload(ctx context.Context, file models.UploadFile) (models.UploadedBlob, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, file)
	}
	return models.UploadedBlob{}, nil
}

// ─────────────────────────────────────────────
// Mock: LinkageSynchronizer
// ─────────────────────────────────────────────

type mockLinkageSynchronizer struct {
	rekeyFn func(ctx context.Context, oldOwnerKey, newOwnerKey string) error
}

func (m *mockLinkageSynchronizer) Rekey(ctx context.Context, oldOwnerKey, newOwnerKey string) error {
	if m.rekeyFn != nil {
		return m.rekeyFn(ctx, oldOwnerKey, newOwnerKey)
	}
	return nil
}
