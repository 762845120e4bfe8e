package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlobStore(t *testing.T, handler http.HandlerFunc) BlobStore {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Blob{
		UploadEndpoint: srv.URL + "/api/v1/files/upload",
		PrivateKey:     "private_key",
		RequestTimeout: 5 * time.Second,
	}

	store, err := NewImageKitBlobStore(cfg, logger.Nop())
	require.NoError(t, err)
	return store
}

func TestNewImageKitBlobStore_Validation(t *testing.T) {
	_, err := NewImageKitBlobStore(config.Blob{PrivateKey: "k"}, logger.Nop())
	require.Error(t, err)

	_, err = NewImageKitBlobStore(config.Blob{UploadEndpoint: "https://upload.example.com"}, logger.Nop())
	require.Error(t, err)
}

func TestUpload_Success(t *testing.T) {
	var gotAuthUser string
	var gotFileName string

	store := newTestBlobStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuthUser, _, _ = r.BasicAuth()
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotFileName = r.FormValue("fileName")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://cdn.example.com/cat.png","fileId":"img-1","name":"cat_x.png"}`))
	})

	blob, err := store.Upload(context.Background(), models.UploadFile{
		Name:        "cat.png",
		ContentType: "image/png",
		Data:        []byte("not-really-a-png"),
	})
	require.NoError(t, err)

	assert.Equal(t, "private_key", gotAuthUser)
	assert.Equal(t, "cat.png", gotFileName)
	assert.Equal(t, "https://cdn.example.com/cat.png", blob.URL)
	assert.Equal(t, "img-1", blob.ID)
	assert.Equal(t, "cat_x.png", blob.Name)
}

func TestUpload_ProviderError(t *testing.T) {
	store := newTestBlobStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := store.Upload(context.Background(), models.UploadFile{Name: "cat.png"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUploadFailed))
}

func TestUpload_MalformedResponse(t *testing.T) {
	store := newTestBlobStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := store.Upload(context.Background(), models.UploadFile{Name: "cat.png"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUploadFailed))
}
