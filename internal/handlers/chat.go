package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"synapse/internal/pipeline"
)

// ChatHandler exposes the pipeline entry point over HTTP.
type ChatHandler struct {
	pipeline  *pipeline.Pipeline
	maxLength int
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(p *pipeline.Pipeline, maxLength int) *ChatHandler {
	if maxLength <= 0 {
		maxLength = 4000
	}
	return &ChatHandler{pipeline: p, maxLength: maxLength}
}

type chatRequest struct {
	Message string `json:"message"`
}

// HandleMessage processes one chat message.
// POST /api/chat
func (h *ChatHandler) HandleMessage(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}
	if len(message) > h.maxLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message too long",
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 15*time.Second)
	defer cancel()

	response := h.pipeline.HandleMessage(ctx, message)
	return c.JSON(response)
}

// GetConversation returns the bounded conversation log, oldest first.
// GET /api/conversation
func (h *ChatHandler) GetConversation(c *fiber.Ctx) error {
	turns := h.pipeline.Conversation().Turns()
	return c.JSON(fiber.Map{
		"turns": turns,
		"count": len(turns),
	})
}
