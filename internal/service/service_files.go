package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darkdrop/darkdrop/internal/adapter"
	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/store"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
)

// allowedContentTypes is the image MIME allowlist for uploads.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

// fileService is the concrete implementation of FileService. Uploads pass
// through to the blob store; the service keeps only index entries (URL,
// id, label, timestamp), never the bytes.
type fileService struct {
	files store.FileIndexRepository
	blob  adapter.BlobStore
	uuid  *utils.UUIDGenerator

	maxUploadSize int64
	maxFiles      int

	logger *logger.Logger
}

// NewFileService constructs a FileService with upload limits taken from
// cfg.
func NewFileService(files store.FileIndexRepository, blob adapter.BlobStore, cfg config.Blob, logger *logger.Logger) FileService {
	return &fileService{
		files:         files,
		blob:          blob,
		uuid:          utils.NewUUIDGenerator(),
		maxUploadSize: cfg.MaxUploadSize,
		maxFiles:      cfg.MaxFiles,
		logger:        logger,
	}
}

// List implements FileService. An owner without an index yet gets an
// empty one.
func (f *fileService) List(ctx context.Context, ownerEmail string) (models.FileIndex, error) {
	index, err := f.files.Find(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, store.ErrFileIndexNotFound) {
			return models.FileIndex{OwnerEmail: strings.ToLower(ownerEmail), Entries: []models.FileEntry{}}, nil
		}
		return models.FileIndex{}, fmt.Errorf("file index lookup failed: %w", err)
	}

	return index, nil
}

// Rename implements FileService.
func (f *fileService) Rename(ctx context.Context, ownerEmail, fileURL, fileName string) error {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return fmt.Errorf("%w: empty file name", ErrValidation)
	}

	if err := f.files.RenameEntry(ctx, ownerEmail, fileURL, fileName); err != nil {
		if errors.Is(err, store.ErrFileEntryNotFound) {
			return err
		}
		return fmt.Errorf("file entry rename failed: %w", err)
	}

	return nil
}

// Remove implements FileService.
func (f *fileService) Remove(ctx context.Context, ownerEmail, fileURL string) error {
	if err := f.files.RemoveEntry(ctx, ownerEmail, fileURL); err != nil {
		if errors.Is(err, store.ErrFileEntryNotFound) {
			return err
		}
		return fmt.Errorf("file entry removal failed: %w", err)
	}

	return nil
}

// Upload implements FileService. The whole batch is validated before the
// first provider call, so a rejected batch uploads nothing. Entries are
// appended to the index only after every file was accepted by the
// provider.
func (f *fileService) Upload(ctx context.Context, ownerEmail string, files []models.UploadFile) (models.UploadResult, error) {
	log := logger.FromContext(ctx)

	if err := f.validateBatch(files); err != nil {
		return models.UploadResult{}, err
	}

	entries := make([]models.FileEntry, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, file := range files {
		blob, err := f.blob.Upload(ctx, file)
		if err != nil {
			log.Err(err).Str("file", file.Name).Msg("blob upload failed")
			return models.UploadResult{}, err
		}

		imageID := blob.ID
		if imageID == "" {
			imageID = f.uuid.Generate()
		}

		entries = append(entries, models.FileEntry{
			ImageID:    imageID,
			FilePath:   blob.URL,
			FileName:   blob.Name,
			UploadedAt: time.Now().UTC(),
		})
		urls = append(urls, blob.URL)
	}

	if err := f.files.AppendEntries(ctx, ownerEmail, entries); err != nil {
		log.Err(err).Str("owner", ownerEmail).Msg("index append failed")
		return models.UploadResult{}, fmt.Errorf("index append failed: %w", err)
	}

	return models.UploadResult{
		URLs:      urls,
		FileCount: len(entries),
		Entries:   entries,
	}, nil
}

func (f *fileService) validateBatch(files []models.UploadFile) error {
	if len(files) == 0 {
		return ErrNoFilesProvided
	}
	if len(files) > f.maxFiles {
		return fmt.Errorf("%w: at most %d per request", ErrTooManyFiles, f.maxFiles)
	}

	for _, file := range files {
		if int64(len(file.Data)) > f.maxUploadSize {
			return fmt.Errorf("%w: %q exceeds %d bytes", ErrFileTooLarge, file.Name, f.maxUploadSize)
		}
		if _, ok := allowedContentTypes[file.ContentType]; !ok {
			return fmt.Errorf("%w: %q", ErrUnsupportedContent, file.ContentType)
		}
	}

	return nil
}
