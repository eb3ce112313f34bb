package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/openlearn/learnportal-be/types"
	"github.com/rs/zerolog/log"
)

// WebSocketService serves the ask flow over a WebSocket for clients that
// prefer frames over SSE. One request is answered at a time per connection.
type WebSocketService struct {
	rag           RAGService
	defaultModule string
	upgrader      websocket.Upgrader
}

func NewWebSocketService(rag RAGService, defaultModule string) *WebSocketService {
	return &WebSocketService{
		rag:           rag,
		defaultModule: defaultModule,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is handled at the HTTP layer
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

	conn.SetReadLimit(512 * 1024)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		var req types.WebsocketRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				return
			}

		case types.TypeWebsocketChat:
			var ask types.AskBotRequest
			if err := json.Unmarshal(req.Payload, &ask); err != nil || ask.Text == "" {
				if err := s.writeError(conn, "invalid chat payload"); err != nil {
					return
				}
				continue
			}
			if ask.Module == "" {
				ask.Module = s.defaultModule
			}
			if !s.streamAnswer(ctx, conn, ask) {
				cancel()
				return
			}

		default:
			if err := s.writeError(conn, "unknown message type"); err != nil {
				return
			}
		}
	}
}

// streamAnswer relays one generation onto the connection. A write failure
// means the client is gone; returning false tells the caller to cancel.
func (s *WebSocketService) streamAnswer(ctx context.Context, conn *websocket.Conn, ask types.AskBotRequest) bool {
	for event := range s.rag.AskStream(ctx, ask) {
		resp := types.WebsocketResponse{Type: types.TypeWebsocketChat, Payload: event}
		if err := conn.WriteJSON(resp); err != nil {
			log.Warn().Err(err).Msg("websocket write failed, dropping generation")
			return false
		}
	}
	return true
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) error {
	return conn.WriteJSON(types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: map[string]string{"error": message},
	})
}
