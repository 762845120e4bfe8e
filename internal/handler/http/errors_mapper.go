package http

import (
	"errors"
	"net/http"

	"github.com/darkdrop/darkdrop/internal/adapter"
	"github.com/darkdrop/darkdrop/internal/oauth"
	"github.com/darkdrop/darkdrop/internal/service"
	"github.com/darkdrop/darkdrop/internal/store"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
)

var errorStatusMap = map[error]int{
	service.ErrValidation:         http.StatusBadRequest,
	service.ErrWeakSecret:         http.StatusBadRequest,
	service.ErrNoFilesProvided:    http.StatusBadRequest,
	service.ErrTooManyFiles:       http.StatusBadRequest,
	service.ErrFileTooLarge:       http.StatusBadRequest,
	service.ErrUnsupportedContent: http.StatusBadRequest,

	service.ErrInvalidCredentials: http.StatusUnauthorized,
	service.ErrNoPasswordSet:      http.StatusUnauthorized,
	service.ErrTokenExpired:       http.StatusUnauthorized,
	service.ErrTokenInvalid:       http.StatusUnauthorized,
	ErrStateMismatch:              http.StatusUnauthorized,

	service.ErrDuplicateUsername:         http.StatusConflict,
	service.ErrDuplicateEmail:            http.StatusConflict,
	service.ErrDuplicateUsernameAndEmail: http.StatusConflict,
	store.ErrUsernameAlreadyExists:       http.StatusConflict,
	store.ErrEmailAlreadyExists:          http.StatusConflict,
	store.ErrIdentityAlreadyExists:       http.StatusConflict,

	store.ErrIdentityNotFound:  http.StatusNotFound,
	store.ErrFileIndexNotFound: http.StatusNotFound,
	store.ErrFileEntryNotFound: http.StatusNotFound,

	adapter.ErrUploadFailed: http.StatusBadGateway,
	oauth.ErrExchangeFailed: http.StatusBadGateway,
	oauth.ErrProfileFetch:   http.StatusBadGateway,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err to its HTTP status and writes the failure envelope.
// Unmapped errors answer a generic 500 so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(http.StatusInternalServerError)
	}

	utils.WriteJSON(w, models.ErrorResponse{Error: message}, status)
}
