package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"synapse/internal/knowledge"
	"synapse/internal/models"
	"synapse/internal/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *knowledge.Store) {
	t.Helper()
	store := knowledge.NewStore(storage.NewMemoryStorage())
	h := NewKnowledgeHandler(store)

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/knowledge", h.Stats)
	api.Delete("/knowledge", h.ClearAll)
	api.Get("/knowledge/:kind/search", h.Search)
	api.Get("/knowledge/:kind", h.ListEntries)
	api.Post("/knowledge/:kind", h.UpsertEntry)
	api.Get("/knowledge/:kind/:key", h.GetEntry)
	api.Delete("/knowledge/:kind/:key", h.DeleteEntry)
	return app, store
}

func TestKnowledgeKindValidation(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"list unknown kind", "GET", "/api/knowledge/bogus", fiber.StatusBadRequest},
		{"get unknown kind", "GET", "/api/knowledge/bogus/key", fiber.StatusBadRequest},
		{"delete unknown kind", "DELETE", "/api/knowledge/bogus/key", fiber.StatusBadRequest},
		{"search unknown kind", "GET", "/api/knowledge/bogus/search?q=x", fiber.StatusBadRequest},
		{"list valid kind", "GET", "/api/knowledge/fact", fiber.StatusOK},
		{"list valid kind vocabulary", "GET", "/api/knowledge/vocabulary", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.target, nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestKnowledgeUpsertGetDelete(t *testing.T) {
	app, store := newTestApp(t)

	body := bytes.NewBufferString(`{"key": "Jupiter!", "value": "The largest planet in the solar system."}`)
	req := httptest.NewRequest("POST", "/api/knowledge/fact", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("upsert status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
	}

	var stored models.KnowledgeEntry
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		t.Fatalf("decode upsert response: %v", err)
	}
	if stored.Kind != models.KindFact {
		t.Errorf("kind = %q, want %q", stored.Kind, models.KindFact)
	}
	if stored.Source != models.SourceManual {
		t.Errorf("source = %q, want %q", stored.Source, models.SourceManual)
	}
	// Omitted confidence defaults to full trust for manual writes.
	if stored.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", stored.Confidence)
	}

	// The normalized key addresses the same entry.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/knowledge/fact/jupiter", nil))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("get status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/knowledge/fact/jupiter", nil))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("delete status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	if _, err := store.Get(models.KindFact, "jupiter"); err == nil {
		t.Error("entry still present after delete")
	}
}
