package http

import (
	"io"
	"net/http"

	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/service"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
)

// uploadFormField is the multipart field name carrying the files.
const uploadFormField = "files"

// maxMultipartMemory bounds the in-memory part of multipart parsing;
// larger bodies spill to temporary files.
const maxMultipartMemory = 32 << 20

// upload accepts a multipart batch, buffers every file, and hands the
// batch to the file service. Validation failures and provider failures
// both answer with the upload envelope so clients get a uniform shape.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.IdentityFromContext(ctx)
	if !ok {
		writeError(w, service.ErrTokenInvalid)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Err(err).Msg("malformed multipart request")
		utils.WriteJSON(w, models.UploadResponse{Error: "malformed multipart request"}, http.StatusBadRequest)
		return
	}

	files, err := readUploadFiles(r)
	if err != nil {
		log.Err(err).Msg("reading multipart files failed")
		utils.WriteJSON(w, models.UploadResponse{Error: "could not read uploaded files"}, http.StatusBadRequest)
		return
	}

	result, err := h.services.Files.Upload(ctx, identity.Email, files)
	if err != nil {
		log.Err(err).Int("files", len(files)).Msg("upload failed")
		utils.WriteJSON(w, models.UploadResponse{Error: err.Error()}, statusFromError(err))
		return
	}

	log.Debug().Int("files", result.FileCount).Msg("upload accepted")

	utils.WriteJSON(w, models.UploadResponse{
		Success:   true,
		URLs:      result.URLs,
		FileCount: result.FileCount,
	}, http.StatusOK)
}

// readUploadFiles buffers every part of the "files" field into memory.
// Size limits are enforced by the file service, not here.
func readUploadFiles(r *http.Request) ([]models.UploadFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[uploadFormField]
	files := make([]models.UploadFile, 0, len(headers))
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, err
		}

		files = append(files, models.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return files, nil
}
