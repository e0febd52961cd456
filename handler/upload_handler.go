package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	services "github.com/knowra/knowra-be/service"
	"github.com/knowra/knowra-be/types"
)

const maxUploadSize = 10 << 20 // 10 MiB

type UploadHandler struct {
	fileService *services.FileService
}

func NewUploadHandler(fileService *services.FileService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
	}
}

func (h *UploadHandler) HandleUpload() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodPost {
			h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		file, header, err := r.FormFile("file")
		if err != nil {
			h.sendError(w, "Invalid file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxUploadSize {
			h.sendError(w, "File too large", http.StatusBadRequest)
			return
		}

		response, err := h.fileService.UploadDocument(r.Context(), header.Filename, file)
		if err != nil {
			switch {
			case errors.Is(err, types.ErrInvalidInput):
				h.sendError(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, types.ErrNoExtractableText):
				h.sendError(w, "Could not extract text from the PDF", http.StatusBadRequest)
			case errors.Is(err, types.ErrUpstream):
				log.Error().Err(err).Str("filename", header.Filename).Msg("upstream failure during upload")
				h.sendError(w, "AI service is unavailable, please try again later", http.StatusServiceUnavailable)
			default:
				log.Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
				h.sendError(w, "Upload failed", http.StatusInternalServerError)
			}
			return
		}

		h.sendSuccess(w, response)
	})
}

func (h *UploadHandler) sendError(w http.ResponseWriter, message string, status int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status:  false,
		Message: message,
	})
}

func (h *UploadHandler) sendSuccess(w http.ResponseWriter, response *types.UploadResponse) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status:  true,
		Message: response.Message,
		Data:    response,
	})
}
