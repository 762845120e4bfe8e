package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
)

type imageKitBlobStore struct {
	client   *utils.HTTPClient
	endpoint string

	logger *logger.Logger
}

// NewImageKitBlobStore constructs a [BlobStore] talking to an
// ImageKit-style upload REST API. Authentication is HTTP basic with the
// private key as the username and an empty password, the provider's
// convention.
//
// Returns an error if the upload endpoint or private key is empty.
func NewImageKitBlobStore(cfg config.Blob, logger *logger.Logger) (BlobStore, error) {
	if cfg.UploadEndpoint == "" {
		return nil, fmt.Errorf("empty blob upload endpoint")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("empty blob private key")
	}

	client := utils.NewHTTPClient()
	client.
		SetBasicAuth(cfg.PrivateKey, "").
		SetTimeout(cfg.RequestTimeout)

	return &imageKitBlobStore{
		client:   client,
		endpoint: cfg.UploadEndpoint,
		logger:   logger,
	}, nil
}

// Upload implements [BlobStore]. It POSTs the file as multipart form data
// to the provider's upload endpoint and decodes the {url, fileId, name}
// answer. Returns [ErrUploadFailed] (wrapped) if the request fails, the
// provider responds with a non-2xx status, or the response cannot be
// decoded.
func (i *imageKitBlobStore) Upload(ctx context.Context, file models.UploadFile) (models.UploadedBlob, error) {
	log := logger.FromContext(ctx)

	resp, err := i.client.R().
		SetContext(ctx).
		SetFileReader("file", file.Name, bytes.NewReader(file.Data)).
		SetFormData(map[string]string{
			"fileName":          file.Name,
			"useUniqueFileName": "true",
		}).
		Post(i.endpoint)
	if err != nil {
		log.Err(err).Str("func", "*imageKitBlobStore.Upload").Msg("upload request failed")
		return models.UploadedBlob{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if resp.IsError() {
		log.Error().
			Str("func", "*imageKitBlobStore.Upload").
			Int("status", resp.StatusCode()).
			Msg("provider rejected upload")
		return models.UploadedBlob{}, fmt.Errorf("%w: provider returned status %d", ErrUploadFailed, resp.StatusCode())
	}

	var blob models.UploadedBlob
	if err := json.Unmarshal(resp.Body(), &blob); err != nil {
		return models.UploadedBlob{}, fmt.Errorf("%w: decoding provider response: %w", ErrUploadFailed, err)
	}

	return blob, nil
}
