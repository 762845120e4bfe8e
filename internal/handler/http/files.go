package http

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/service"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.IdentityFromContext(ctx)
	if !ok {
		writeError(w, service.ErrTokenInvalid)
		return
	}

	index, err := h.services.Files.List(ctx, identity.Email)
	if err != nil {
		log.Err(err).Msg("listing shared files failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.FilesResponse{Success: true, Files: index.Entries}, http.StatusOK)
}

func (h *Handler) renameFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.IdentityFromContext(ctx)
	if !ok {
		writeError(w, service.ErrTokenInvalid)
		return
	}

	fileURL, err := fileURLParam(r)
	if err != nil {
		log.Err(err).Msg("malformed file url")
		writeError(w, service.ErrValidation)
		return
	}

	var req models.RenameFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Error: "invalid JSON payload"}, http.StatusBadRequest)
		return
	}

	if err := h.services.Files.Rename(ctx, identity.Email, fileURL, req.Filename); err != nil {
		log.Err(err).Str("url", fileURL).Msg("renaming shared file failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "file renamed"}, http.StatusOK)
}

func (h *Handler) removeFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.IdentityFromContext(ctx)
	if !ok {
		writeError(w, service.ErrTokenInvalid)
		return
	}

	fileURL, err := fileURLParam(r)
	if err != nil {
		log.Err(err).Msg("malformed file url")
		writeError(w, service.ErrValidation)
		return
	}

	if err := h.services.Files.Remove(ctx, identity.Email, fileURL); err != nil {
		log.Err(err).Str("url", fileURL).Msg("removing shared file failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "file removed"}, http.StatusOK)
}

// fileURLParam reads the percent-encoded blob URL from the route and
// decodes it back to its stored form.
func fileURLParam(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "url"))
}
