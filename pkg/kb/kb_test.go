package kb

import (
	"os"
	"path/filepath"
	"testing"
)

const testKB = `[
  {
    "slug": "claude-3",
    "name": "Claude 3",
    "display_name": "Claude 3 Opus",
    "version": "3.0",
    "description": "Large language model",
    "publisher": {"name": "Anthropic", "url": "https://www.anthropic.com"}
  },
  {
    "slug": "gpt-4",
    "name": "GPT-4",
    "display_name": "GPT-4 Turbo",
    "publisher": {"name": "OpenAI"}
  }
]`

func TestLoad(t *testing.T) {
	s, err := Load([]byte(testKB))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := Load([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("Load(object) = nil error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	if err := os.WriteFile(path, []byte(testKB), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if s.Find("claude-3") == nil {
		t.Error("Find(claude-3) missed after LoadFile")
	}
}

func TestFind(t *testing.T) {
	s, err := Load([]byte(testKB))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		identifier string
		wantSlug   string
	}{
		{"exact slug", "claude-3", "claude-3"},
		{"slug case-insensitive", "CLAUDE-3", "claude-3"},
		{"substring of name", "gpt", "gpt-4"},
		{"substring of display name", "opus", "claude-3"},
		{"whitespace trimmed", "  Claude 3  ", "claude-3"},
		{"miss", "llama", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.Find(tt.identifier)
			if tt.wantSlug == "" {
				if rec != nil {
					t.Errorf("Find(%q) = %+v, want nil", tt.identifier, rec)
				}
				return
			}
			if rec == nil || rec.Slug != tt.wantSlug {
				t.Errorf("Find(%q) = %+v, want slug %q", tt.identifier, rec, tt.wantSlug)
			}
		})
	}
}

func TestFindCarriesPublisher(t *testing.T) {
	s, _ := Load([]byte(testKB))
	rec := s.Find("claude-3")
	if rec == nil || rec.Publisher == nil || rec.Publisher.Name != "Anthropic" {
		t.Errorf("publisher not carried: %+v", rec)
	}
}

func TestEmpty(t *testing.T) {
	if Empty().Find("anything") != nil {
		t.Error("Empty().Find() should always miss")
	}
}
