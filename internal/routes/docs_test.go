package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestDocsEndpointListsAPI(t *testing.T) {
	app := fiber.New()
	registerDocs(app)

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Service   string         `json:"service"`
		Endpoints []docsEndpoint `json:"endpoints"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Service == "" {
		t.Fatalf("expected a service name")
	}
	if len(body.Endpoints) != len(docsEndpoints) {
		t.Fatalf("expected %d endpoints, got %d", len(docsEndpoints), len(body.Endpoints))
	}
}

func TestDocsEntriesAreWellFormed(t *testing.T) {
	seen := make(map[string]bool, len(docsEndpoints))
	for _, e := range docsEndpoints {
		if e.Method == "" || e.Path == "" || e.Auth == "" {
			t.Fatalf("incomplete entry: %+v", e)
		}
		key := e.Method + " " + e.Path
		if seen[key] {
			t.Fatalf("duplicate entry: %s", key)
		}
		seen[key] = true
	}
}
