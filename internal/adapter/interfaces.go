// Package adapter provides outbound integrations with external providers.
//
// The primary abstraction is [BlobStore], which decouples the service layer
// from the storage provider's wire format. The package ships an
// ImageKit-style REST implementation ([NewImageKitBlobStore]); the provider
// keeps the bytes, the service keeps only the returned URL and id.
//
// Error values defined in errors.go are mapped from provider responses so
// that callers can use [errors.Is] for provider-agnostic error handling.
package adapter

import (
	"context"

	"github.com/darkdrop/darkdrop/models"
)

// BlobStore uploads raw file bytes to an external storage provider.
// Implementations are responsible for authentication, serialisation, and
// mapping provider errors to the sentinel values defined in this package.
type BlobStore interface {
	// Upload sends one file to the provider and returns the provider's
	// public URL, file id, and stored name. Returns [ErrUploadFailed]
	// (wrapped) if the provider rejects the file or is unreachable.
	Upload(ctx context.Context, file models.UploadFile) (models.UploadedBlob, error)
}
