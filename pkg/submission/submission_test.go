package submission

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
)

func TestIsEmpty(t *testing.T) {
	s := Submission{
		"blank":    "",
		"nilval":   nil,
		"emptylst": []string{},
		"text":     "hello",
		"list":     []string{"a"},
		"falsy":    false,
		"space":    " ",
	}
	tests := []struct {
		field string
		want  bool
	}{
		{"absent", true},
		{"blank", true},
		{"nilval", true},
		{"emptylst", true},
		{"text", false},
		{"list", false},
		{"falsy", false},
		{"space", false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := s.IsEmpty(tt.field); got != tt.want {
				t.Errorf("IsEmpty(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestGetString(t *testing.T) {
	s := Submission{"name": "gpt-x", "count": 3}

	if v, err := s.GetString("name"); err != nil || v != "gpt-x" {
		t.Errorf("GetString(name) = %q, %v", v, err)
	}
	if v, err := s.GetString("absent"); err != nil || v != "" {
		t.Errorf("GetString(absent) = %q, %v", v, err)
	}
	if _, err := s.GetString("count"); !sdkerrors.IsMalformedInput(err) {
		t.Errorf("GetString(count) error = %v, want malformed input", err)
	}
}

func TestGetStringList(t *testing.T) {
	s := Submission{
		"typed":  []string{"a", "b"},
		"json":   []any{"x", "y"},
		"mixed":  []any{"x", 1},
		"scalar": "not a list",
	}

	if got, err := s.GetStringList("typed"); err != nil || !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("typed = %v, %v", got, err)
	}
	if got, err := s.GetStringList("json"); err != nil || !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("json = %v, %v", got, err)
	}
	if _, err := s.GetStringList("mixed"); !sdkerrors.IsMalformedInput(err) {
		t.Errorf("mixed error = %v, want malformed input", err)
	}
	if _, err := s.GetStringList("scalar"); !sdkerrors.IsMalformedInput(err) {
		t.Errorf("scalar error = %v, want malformed input", err)
	}
	if got, err := s.GetStringList("absent"); err != nil || got != nil {
		t.Errorf("absent = %v, %v", got, err)
	}
}

func TestCloneIsolatesLists(t *testing.T) {
	s := Submission{"list": []string{"a"}}
	c := s.Clone()
	c["list"].([]string)[0] = "mutated"
	if s["list"].([]string)[0] != "a" {
		t.Error("Clone shares list backing array with original")
	}
}

func TestStripDetailMarker(t *testing.T) {
	in := DetailMarker + "the long form"
	if got := StripDetailMarker(in); got != "the long form" {
		t.Errorf("StripDetailMarker = %q", got)
	}
	if got := StripDetailMarker("plain"); got != "plain" {
		t.Errorf("StripDetailMarker(plain) = %q", got)
	}
}

func TestSelectionWithOther(t *testing.T) {
	sw := SelectionWithOther{Selected: []string{"Users", "Other"}, OtherText: "Auditors"}
	want := []string{"Users", "Auditors"}
	if got := sw.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}

	sw = SelectionWithOther{Selected: []string{"Other"}}
	if got := sw.Values(); !reflect.DeepEqual(got, []string{"Other"}) {
		t.Errorf("Values() without other text = %v", got)
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.SetSection("basic", map[string]any{FieldReporterID: "r-1"})
	b.SetSection("common", map[string]any{FieldFlawDescription: "bias in output"})
	b.SetSection("common", map[string]any{FieldFlawDescription: "revised"})
	b.Set(FieldSeverity, "High")

	sub, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze() error = %v", err)
	}
	if sub[FieldFlawDescription] != "revised" {
		t.Errorf("section replacement did not discard old value: %v", sub[FieldFlawDescription])
	}
	if sub[FieldSeverity] != "High" {
		t.Errorf("Set value missing: %v", sub[FieldSeverity])
	}

	// Mutations after Freeze are ignored.
	b.Set(FieldSeverity, "Low")
	sub2, _ := b.Freeze()
	if sub2[FieldSeverity] != "High" {
		t.Error("builder accepted writes after Freeze")
	}
}

func TestBuilderDropSection(t *testing.T) {
	b := NewBuilder()
	b.SetSection("hazard", map[string]any{FieldExamples: []string{"ex1"}})
	b.SetSection("basic", map[string]any{FieldReporterID: "r-1"})
	b.DropSection("hazard")

	sub, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze() error = %v", err)
	}
	if _, ok := sub[FieldExamples]; ok {
		t.Error("dropped section still present after Freeze")
	}
}

func TestBuilderFreezeEmpty(t *testing.T) {
	if _, err := NewBuilder().Freeze(); err != sdkerrors.ErrEmptySubmission {
		t.Errorf("Freeze() on empty builder = %v, want ErrEmptySubmission", err)
	}
}

func TestLoadAny(t *testing.T) {
	t.Run("map", func(t *testing.T) {
		got, err := LoadAny(map[string]any{"a": "b"})
		if err != nil || got["a"] != "b" {
			t.Fatalf("LoadAny(map) = %v, %v", got, err)
		}
	})

	t.Run("raw json string", func(t *testing.T) {
		got, err := LoadAny(`{"Severity": "High"}`)
		if err != nil || got["Severity"] != "High" {
			t.Fatalf("LoadAny(json) = %v, %v", got, err)
		}
	})

	t.Run("bytes", func(t *testing.T) {
		got, err := LoadAny([]byte(`{"k": "v"}`))
		if err != nil || got["k"] != "v" {
			t.Fatalf("LoadAny(bytes) = %v, %v", got, err)
		}
	})

	t.Run("file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		if err := os.WriteFile(path, []byte(`{"Report ID": "abc"}`), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := LoadAny(path)
		if err != nil || got["Report ID"] != "abc" {
			t.Fatalf("LoadAny(path) = %v, %v", got, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAny("/nonexistent/report.json")
		if !sdkerrors.IsNotFound(err) {
			t.Errorf("LoadAny(missing path) error = %v, want not found", err)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		if _, err := LoadAny(`{"broken"`); err == nil {
			t.Error("LoadAny(broken json) = nil error")
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		if _, err := LoadAny(42); !sdkerrors.IsMalformedInput(err) {
			t.Errorf("LoadAny(int) error = %v, want malformed input", err)
		}
	})
}
