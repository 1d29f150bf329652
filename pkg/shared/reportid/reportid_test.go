package reportid

import "testing"

func TestDerive_Deterministic(t *testing.T) {
	fields := map[string]any{
		"Flaw Description": "leaks PII",
		"Impacts":          []any{"Privacy"},
		"Systems":          []any{"Claude-3"},
	}

	a := Derive(fields)
	b := Derive(fields)
	if a != b {
		t.Errorf("Derive() not deterministic: %q != %q", a, b)
	}
	if len(a) != DerivedLength {
		t.Errorf("Derive() length = %d, want %d", len(a), DerivedLength)
	}
}

func TestDerive_ContentSensitive(t *testing.T) {
	a := Derive(map[string]any{"Flaw Description": "leaks PII"})
	b := Derive(map[string]any{"Flaw Description": "crashes"})
	if a == b {
		t.Errorf("different content produced the same id %q", a)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("New() produced duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestHash_Length(t *testing.T) {
	if got := Hash("anything"); len(got) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(got))
	}
}
