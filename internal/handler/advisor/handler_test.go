package advisor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	advisormodel "github.com/geoadvisor/backend/internal/model/advisor"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(advisormodel.NewMemoryStore(advisormodel.Seed())).RegisterRoutes(r)
	return r
}

func TestExamplesList(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/advisor/examples", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Examples []advisormodel.Example `json:"examples"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Examples) != 6 {
		t.Fatalf("expected 6 examples, got %d", len(body.Examples))
	}
	for _, example := range body.Examples {
		if example.ID == "" || example.Text == "" {
			t.Fatalf("incomplete example: %+v", example)
		}
	}
}

func TestModelsList(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/advisor/models", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body struct {
		Models []struct {
			ID      string `json:"id"`
			Default bool   `json:"default"`
		} `json:"models"`
		Default string `json:"default"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Default == "" {
		t.Fatal("missing default model")
	}

	defaults := 0
	for _, m := range body.Models {
		if m.Default {
			defaults++
			if m.ID != body.Default {
				t.Fatalf("default flag on %s but default is %s", m.ID, body.Default)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default model, got %d", defaults)
	}
}
