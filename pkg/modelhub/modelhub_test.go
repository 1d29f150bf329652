package modelhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aiflawlab/sdk/pkg/core"
)

func TestTopModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/models" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("sort"); got != "downloads" {
			t.Errorf("sort = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "3" {
			t.Errorf("limit = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"modelId": "org/model-a"}, {"modelId": "org/model-b"}, {"modelId": ""}]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithLogger(core.NewNopLogger()))
	models, err := c.TopModels(context.Background(), 3)
	if err != nil {
		t.Fatalf("TopModels() error = %v", err)
	}
	want := []string{"org/model-a", "org/model-b"}
	if len(models) != len(want) || models[0] != want[0] || models[1] != want[1] {
		t.Errorf("models = %v, want %v", models, want)
	}
}

func TestTopModelsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithLogger(core.NewNopLogger()))
	if _, err := c.TopModels(context.Background(), 5); err == nil {
		t.Error("TopModels() = nil error on 403")
	}
}

func TestSystemOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// One duplicate of a priority model, one new model.
		_, _ = w.Write([]byte(`[{"modelId": "GPT-4"}, {"modelId": "org/new-model"}]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithLogger(core.NewNopLogger()))
	options := c.SystemOptions(context.Background(), 10)

	if options[0] != PriorityModels[0] {
		t.Errorf("options[0] = %q, want priority model first", options[0])
	}
	if options[len(options)-1] != "Other" {
		t.Errorf("last option = %q, want Other", options[len(options)-1])
	}
	count := 0
	for _, o := range options {
		if o == "GPT-4" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("GPT-4 appears %d times, want 1", count)
	}
	found := false
	for _, o := range options {
		if o == "org/new-model" {
			found = true
		}
	}
	if !found {
		t.Error("hub model missing from options")
	}
}

func TestSystemOptionsFallback(t *testing.T) {
	// Closed server forces the priority-only fallback.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithLogger(core.NewNopLogger()))
	options := c.SystemOptions(context.Background(), 10)

	if len(options) != len(PriorityModels)+1 {
		t.Errorf("options = %d entries, want priority list plus Other", len(options))
	}
	if options[len(options)-1] != "Other" {
		t.Errorf("last option = %q", options[len(options)-1])
	}
}
