package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"synapse/internal/knowledge"
	"synapse/internal/models"
)

// KnowledgeHandler exposes read and manual-write access to the
// knowledge store.
type KnowledgeHandler struct {
	store *knowledge.Store
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(store *knowledge.Store) *KnowledgeHandler {
	return &KnowledgeHandler{store: store}
}

// ListEntries returns all entries of one kind, sorted by key.
// GET /api/knowledge/:kind
func (h *KnowledgeHandler) ListEntries(c *fiber.Ctx) error {
	kind := models.EntryKind(c.Params("kind"))
	if !models.ValidKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown knowledge kind",
			"kinds": models.EntryKinds,
		})
	}

	entries := h.store.All(kind)
	return c.JSON(fiber.Map{
		"kind":    kind,
		"entries": entries,
		"count":   len(entries),
	})
}

// GetEntry returns a single entry by kind and key.
// GET /api/knowledge/:kind/:key
func (h *KnowledgeHandler) GetEntry(c *fiber.Ctx) error {
	kind := models.EntryKind(c.Params("kind"))
	if !models.ValidKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown knowledge kind",
		})
	}

	entry, err := h.store.Get(kind, c.Params("key"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Entry not found",
		})
	}
	return c.JSON(entry)
}

type upsertRequest struct {
	Key          string   `json:"key"`
	Value        string   `json:"value"`
	PartOfSpeech string   `json:"part_of_speech,omitempty"`
	Examples     []string `json:"examples,omitempty"`
	Formula      string   `json:"formula,omitempty"`
	URL          string   `json:"url,omitempty"`
	Importance   float64  `json:"importance,omitempty"`
	Confidence   float64  `json:"confidence,omitempty"`
}

// UpsertEntry inserts or replaces an entry with manual provenance.
// POST /api/knowledge/:kind
func (h *KnowledgeHandler) UpsertEntry(c *fiber.Ctx) error {
	kind := models.EntryKind(c.Params("kind"))
	if !models.ValidKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown knowledge kind",
		})
	}

	var req upsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Key) == "" || strings.TrimSpace(req.Value) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "key and value are required",
		})
	}

	confidence := req.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 1.0
	}

	entry := models.KnowledgeEntry{
		Kind:         kind,
		Key:          req.Key,
		Value:        req.Value,
		PartOfSpeech: req.PartOfSpeech,
		Examples:     req.Examples,
		Formula:      req.Formula,
		URL:          req.URL,
		Importance:   req.Importance,
		Source:       models.SourceManual,
		Confidence:   confidence,
	}
	stored := h.store.Upsert(c.UserContext(), entry)
	log.Printf("✏️  [KNOWLEDGE] Manual upsert %s/%s", kind, stored.Key)
	return c.Status(fiber.StatusCreated).JSON(stored)
}

// DeleteEntry removes one entry.
// DELETE /api/knowledge/:kind/:key
func (h *KnowledgeHandler) DeleteEntry(c *fiber.Ctx) error {
	kind := models.EntryKind(c.Params("kind"))
	if !models.ValidKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown knowledge kind",
		})
	}

	if err := h.store.Remove(c.UserContext(), kind, c.Params("key")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Entry not found",
		})
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// ClearAll wipes every namespace.
// DELETE /api/knowledge
func (h *KnowledgeHandler) ClearAll(c *fiber.Ctx) error {
	h.store.Clear(c.UserContext())
	log.Printf("🗑️  [KNOWLEDGE] Cleared all namespaces")
	return c.JSON(fiber.Map{"cleared": true})
}

// Search scores entries of one kind against a query string.
// GET /api/knowledge/:kind/search?q=...
func (h *KnowledgeHandler) Search(c *fiber.Ctx) error {
	kind := models.EntryKind(c.Params("kind"))
	if !models.ValidKind(kind) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown knowledge kind",
		})
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}

	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	results := h.store.Search(kind, query)
	if len(results) > limit {
		results = results[:limit]
	}
	return c.JSON(fiber.Map{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// Stats returns per-namespace entry counts.
// GET /api/knowledge
func (h *KnowledgeHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"namespaces": h.store.Stats(),
		"total":      h.store.Count(),
	})
}
