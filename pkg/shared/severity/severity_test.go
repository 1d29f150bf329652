package severity

import "testing"

func TestLevel_Priority(t *testing.T) {
	tests := []struct {
		level    Level
		expected int
	}{
		{Critical, 5},
		{High, 4},
		{Medium, 3},
		{Low, 2},
		{Negligible, 1},
		{Unknown, 0},
		{Level("bogus"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.Priority(); got != tt.expected {
				t.Errorf("Priority() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"Critical", Critical},
		{"CRITICAL", Critical},
		{"Catastrophic", Critical},
		{"High", High},
		{"Significant", High},
		{"  medium ", Medium},
		{"Moderate", Medium},
		{"low", Low},
		{"Minor", Low},
		{"Negligible", Negligible},
		{"None", Negligible},
		{"", Unknown},
		{"whatever", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FromString(tt.input); got != tt.expected {
				t.Errorf("FromString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAllLevels(t *testing.T) {
	levels := AllLevels()
	if len(levels) != 6 {
		t.Fatalf("AllLevels() returned %d levels, want 6", len(levels))
	}
	for i := 1; i < len(levels)-1; i++ {
		if !levels[i-1].IsHigherThan(levels[i]) {
			t.Errorf("AllLevels()[%d] (%v) should be higher than [%d] (%v)", i-1, levels[i-1], i, levels[i])
		}
	}
}

func TestCompareAndMax(t *testing.T) {
	if Compare(Critical, Low) != 1 {
		t.Errorf("Compare(Critical, Low) != 1")
	}
	if Compare(Low, Critical) != -1 {
		t.Errorf("Compare(Low, Critical) != -1")
	}
	if Compare(Medium, Medium) != 0 {
		t.Errorf("Compare(Medium, Medium) != 0")
	}
	if Max(High, Negligible) != High {
		t.Errorf("Max(High, Negligible) != High")
	}
	if Max(Unknown, Low) != Low {
		t.Errorf("Max(Unknown, Low) != Low")
	}
}
