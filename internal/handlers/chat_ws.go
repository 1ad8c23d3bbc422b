package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"

	"synapse/internal/pipeline"
)

// ChatSocketHandler serves the chat contract over a WebSocket: one text
// or JSON message in, one FinalResponse out.
type ChatSocketHandler struct {
	pipeline  *pipeline.Pipeline
	maxLength int
}

// NewChatSocketHandler creates a new WebSocket chat handler.
func NewChatSocketHandler(p *pipeline.Pipeline, maxLength int) *ChatSocketHandler {
	if maxLength <= 0 {
		maxLength = 4000
	}
	return &ChatSocketHandler{pipeline: p, maxLength: maxLength}
}

// Handle runs the read-process-reply loop for one connection.
func (h *ChatSocketHandler) Handle(c *websocket.Conn) {
	log.Printf("🔌 [WS] Chat connection opened from %s", c.RemoteAddr())
	defer func() {
		log.Printf("🔌 [WS] Chat connection closed from %s", c.RemoteAddr())
		c.Close()
	}()

	for {
		_, payload, err := c.ReadMessage()
		if err != nil {
			return
		}

		message := extractSocketMessage(payload)
		if message == "" || len(message) > h.maxLength {
			if err := c.WriteJSON(map[string]string{"error": fmt.Sprintf("message must be 1-%d characters", h.maxLength)}); err != nil {
				return
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		response := h.pipeline.HandleMessage(ctx, message)
		cancel()

		if err := c.WriteJSON(response); err != nil {
			return
		}
	}
}

// extractSocketMessage accepts either a raw text frame or {"message": "..."}.
func extractSocketMessage(payload []byte) string {
	var req chatRequest
	if err := json.Unmarshal(payload, &req); err == nil && req.Message != "" {
		return strings.TrimSpace(req.Message)
	}
	return strings.TrimSpace(string(payload))
}
