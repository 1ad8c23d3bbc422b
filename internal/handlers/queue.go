package handlers

import (
	"github.com/gofiber/fiber/v2"

	"synapse/internal/queue"
)

// QueueHandler exposes the learning queue for inspection.
type QueueHandler struct {
	queue *queue.LearningQueue
}

// NewQueueHandler creates a new queue handler.
func NewQueueHandler(q *queue.LearningQueue) *QueueHandler {
	return &QueueHandler{queue: q}
}

// GetQueue returns pending learning items, highest priority first.
// GET /api/queue
func (h *QueueHandler) GetQueue(c *fiber.Ctx) error {
	items := h.queue.Items()
	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}
