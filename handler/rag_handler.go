package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openlearn/learnportal-be/service"
	"github.com/openlearn/learnportal-be/types"
	"github.com/rs/zerolog/log"
)

// RAGHandler exposes the question-answering and answer-analysis endpoints and
// relays the agent's event sequence to the client as server-sent events.
type RAGHandler struct {
	rag           service.RAGService
	defaultModule string
}

func NewRAGHandler(rag service.RAGService, defaultModule string) *RAGHandler {
	return &RAGHandler{
		rag:           rag,
		defaultModule: defaultModule,
	}
}

func (h *RAGHandler) HandleAskBot(c *gin.Context) {
	var req types.AskBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}
	if req.Module == "" {
		req.Module = h.defaultModule
	}

	h.relay(c, h.rag.AskStream(c.Request.Context(), req))
}

func (h *RAGHandler) HandleAnalyzeAnswer(c *gin.Context) {
	var req types.AnalyzeAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}
	if req.Module == "" {
		req.Module = h.defaultModule
	}

	h.relay(c, h.rag.AnalyzeStream(c.Request.Context(), req))
}

// relay serializes events as SSE "data:" frames. Content events carry
// incremental deltas. The producer owns termination: it closes the channel
// after a done or error event, and a client disconnect cancels the request
// context, which stops the producer without any work left running.
func (h *RAGHandler) relay(c *gin.Context, events <-chan types.StreamEvent) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal stream event")
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		c.Writer.Flush()
	}
}
