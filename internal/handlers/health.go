package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"synapse/internal/database"
	"synapse/internal/knowledge"
	"synapse/internal/queue"
	"synapse/internal/services"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	db        *database.DB
	redis     *services.RedisService
	store     *knowledge.Store
	learning  *queue.LearningQueue
	startedAt time.Time
}

// NewHealthHandler creates a new health handler. db and redis may be nil
// when the server is running degraded.
func NewHealthHandler(db *database.DB, redis *services.RedisService, store *knowledge.Store, learning *queue.LearningQueue) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redis,
		store:     store,
		learning:  learning,
		startedAt: time.Now(),
	}
}

// Health returns overall status plus per-dependency checks.
// GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	checks := fiber.Map{}
	status := "healthy"

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			status = "degraded"
		} else {
			checks["database"] = "healthy"
		}
	} else {
		checks["database"] = "disabled (in-memory storage)"
		status = "degraded"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "disabled"
	}

	return c.JSON(fiber.Map{
		"status":         status,
		"checks":         checks,
		"knowledge":      h.store.Count(),
		"learning_queue": h.learning.Len(),
		"uptime":         time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
