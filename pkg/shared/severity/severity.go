// Package severity provides the severity scale used by flaw reports and the
// normalization rules for reporter-supplied severity strings.
//
// Converter-specific remappings to external scales (AVID, MITRE ATLAS) are
// deliberately NOT defined here: the target taxonomies are independently
// versioned and each converter owns its own table.
package severity

import "strings"

// Level represents a severity level for a reported flaw.
type Level string

const (
	// Critical - severe, urgent harm; immediate attention required.
	Critical Level = "Critical"

	// High - serious flaw that should be addressed urgently.
	High Level = "High"

	// Medium - moderate risk, address in the normal cycle.
	Medium Level = "Medium"

	// Low - minor issue, address when convenient.
	Low Level = "Low"

	// Negligible - no meaningful impact observed.
	Negligible Level = "Negligible"

	// Unknown - severity could not be determined.
	Unknown Level = "Unknown"
)

// AllLevels returns all severity levels in order of priority (highest first).
func AllLevels() []Level {
	return []Level{Critical, High, Medium, Low, Negligible, Unknown}
}

// String returns the string representation of the severity level.
func (l Level) String() string {
	return string(l)
}

// Priority returns the numeric priority of the severity level.
// Higher numbers = higher priority.
func (l Level) Priority() int {
	switch l {
	case Critical:
		return 5
	case High:
		return 4
	case Medium:
		return 3
	case Low:
		return 2
	case Negligible:
		return 1
	default:
		return 0
	}
}

// IsHigherThan returns true if this severity is higher than the other.
func (l Level) IsHigherThan(other Level) bool {
	return l.Priority() > other.Priority()
}

// IsAtLeast returns true if this severity is at least as high as the other.
func (l Level) IsAtLeast(other Level) bool {
	return l.Priority() >= other.Priority()
}

// FromString normalizes a reporter-supplied severity string to a Level.
func FromString(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL", "CRIT", "CATASTROPHIC":
		return Critical
	case "HIGH", "SEVERE", "SIGNIFICANT":
		return High
	case "MEDIUM", "MODERATE", "MED":
		return Medium
	case "LOW", "MINOR":
		return Low
	case "NEGLIGIBLE", "NONE":
		return Negligible
	default:
		return Unknown
	}
}

// Compare returns:
//
//	-1 if a < b (a is lower severity)
//	 0 if a == b
//	+1 if a > b (a is higher severity)
func Compare(a, b Level) int {
	pa, pb := a.Priority(), b.Priority()
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	default:
		return 0
	}
}

// Max returns the higher severity of two levels.
func Max(a, b Level) Level {
	if a.IsHigherThan(b) {
		return a
	}
	return b
}
