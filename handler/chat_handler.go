package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/knowra/knowra-be/service"
	"github.com/knowra/knowra-be/types"
)

type ChatHandler struct {
	ragService *service.RAGService
}

func NewChatHandler(ragService *service.RAGService) *ChatHandler {
	return &ChatHandler{
		ragService: ragService,
	}
}

func (h *ChatHandler) HandleChat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodPost {
			h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var chatRequest types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&chatRequest); err != nil {
			h.sendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		response, err := h.ragService.Answer(r.Context(), chatRequest)
		if err != nil {
			switch {
			case errors.Is(err, types.ErrInvalidInput):
				h.sendError(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, types.ErrDocumentNotFound):
				h.sendError(w, "PDF '"+chatRequest.Filename+"' not found. Please upload it first.", http.StatusNotFound)
			case errors.Is(err, types.ErrUpstream):
				log.Error().Err(err).Str("filename", chatRequest.Filename).Msg("upstream failure during chat")
				h.sendError(w, "AI service is unavailable, please try again later", http.StatusServiceUnavailable)
			default:
				log.Error().Err(err).Str("filename", chatRequest.Filename).Msg("chat failed")
				h.sendError(w, "Chat failed", http.StatusInternalServerError)
			}
			return
		}

		h.sendSuccess(w, response)
	})
}

func (h *ChatHandler) sendError(w http.ResponseWriter, message string, status int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status:  false,
		Message: message,
	})
}

func (h *ChatHandler) sendSuccess(w http.ResponseWriter, response *types.ChatResponse) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(types.DataResponse{
		Status: true,
		Data:   response,
	})
}
