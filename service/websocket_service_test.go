package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/learnportal-be/types"
)

type stubRAGService struct {
	events  []types.StreamEvent
	lastReq types.AskBotRequest
}

func (s *stubRAGService) AskStream(ctx context.Context, req types.AskBotRequest) <-chan types.StreamEvent {
	s.lastReq = req
	out := make(chan types.StreamEvent, len(s.events))
	for _, event := range s.events {
		out <- event
	}
	close(out)
	return out
}

func (s *stubRAGService) AnalyzeStream(ctx context.Context, req types.AnalyzeAnswerRequest) <-chan types.StreamEvent {
	out := make(chan types.StreamEvent)
	close(out)
	return out
}

func dialTestChat(t *testing.T, rag *stubRAGService) *websocket.Conn {
	t.Helper()
	ws := NewWebSocketService(rag, "module1")
	server := httptest.NewServer(http.HandlerFunc(ws.HandleChat))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readResponse(t *testing.T, conn *websocket.Conn) types.WebsocketResponse {
	t.Helper()
	var resp types.WebsocketResponse
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func TestWebsocketPing(t *testing.T) {
	conn := dialTestChat(t, &stubRAGService{})

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{Type: types.TypeWebsocketPing}))
	resp := readResponse(t, conn)
	assert.Equal(t, types.TypeWebsocketPong, resp.Type)
}

func TestWebsocketChat(t *testing.T) {
	rag := &stubRAGService{events: []types.StreamEvent{
		types.ContentEvent("Hello"),
		types.DoneEvent(),
	}}
	conn := dialTestChat(t, rag)

	payload, _ := json.Marshal(types.AskBotRequest{Text: "hi"})
	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{
		Type:    types.TypeWebsocketChat,
		Payload: payload,
	}))

	first := readResponse(t, conn)
	assert.Equal(t, types.TypeWebsocketChat, first.Type)

	var event types.StreamEvent
	raw, _ := json.Marshal(first.Payload)
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, "Hello", event.Content)

	second := readResponse(t, conn)
	raw, _ = json.Marshal(second.Payload)
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.True(t, event.Done)

	assert.Equal(t, "module1", rag.lastReq.Module, "module defaults when omitted")
}

func TestWebsocketInvalidPayload(t *testing.T) {
	conn := dialTestChat(t, &stubRAGService{})

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{
		Type:    types.TypeWebsocketChat,
		Payload: json.RawMessage(`{"module":"module1"}`),
	}))

	resp := readResponse(t, conn)
	assert.Equal(t, types.TypeWebsocketError, resp.Type)
}

func TestWebsocketUnknownType(t *testing.T) {
	conn := dialTestChat(t, &stubRAGService{})

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{Type: "bogus"}))
	resp := readResponse(t, conn)
	assert.Equal(t, types.TypeWebsocketError, resp.Type)
}
