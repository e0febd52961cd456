package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/knowra/knowra-be/types"
)

// WebSocketService serves the chat pipeline over a websocket: one
// ChatRequest in, one ChatResponse out per message. No streaming.
type WebSocketService struct {
	rag      *RAGService
	upgrader websocket.Upgrader
}

func NewWebSocketService(rag *RAGService) *WebSocketService {
	return &WebSocketService{
		rag: rag,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var req types.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		response, err := s.rag.Answer(r.Context(), req)
		if err != nil {
			message := "Chat failed"
			switch {
			case errors.Is(err, types.ErrInvalidInput):
				message = err.Error()
			case errors.Is(err, types.ErrDocumentNotFound):
				message = err.Error()
			case errors.Is(err, types.ErrUpstream):
				log.Error().Err(err).Msg("upstream AI failure on websocket chat")
				message = "AI service is unavailable, please try again later"
			default:
				log.Error().Err(err).Msg("websocket chat failed")
			}
			if err := conn.WriteJSON(types.DataResponse{Status: false, Message: message}); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(types.DataResponse{Status: true, Data: response}); err != nil {
			log.Warn().Err(err).Msg("websocket write error")
			return
		}
	}
}
