// Package report classifies submissions into report categories and derives
// and checks the required fields for each category.
package report

// Category labels the kind of flaw report a submission describes. A single
// submission can carry several categories at once.
type Category string

const (
	CategoryRealWorld        Category = "Real-World Incidents"
	CategoryMalignActor      Category = "Malign Actor"
	CategorySecurityIncident Category = "Security Incident Report"
	CategoryVulnerability    Category = "Vulnerability Report"
	CategoryHazard           Category = "Hazard Report"
)

// AllCategories lists every category label in display order.
var AllCategories = []Category{
	CategoryRealWorld,
	CategoryMalignActor,
	CategorySecurityIncident,
	CategoryVulnerability,
	CategoryHazard,
}

// String returns the category label.
func (c Category) String() string { return string(c) }

// Answer is one tri-state reply to a classification question.
type Answer int

const (
	// Unanswered means the reporter has not resolved the question yet.
	Unanswered Answer = iota
	Yes
	No
)

// AnswerFrom converts an optional boolean into an Answer. A nil pointer is
// Unanswered.
func AnswerFrom(b *bool) Answer {
	if b == nil {
		return Unanswered
	}
	if *b {
		return Yes
	}
	return No
}

// Classify maps the two classification answers to the active category set.
// The result is ordered and deterministic. While either answer is
// Unanswered the set is empty, so no category-specific sections are shown.
// Re-classifying fully replaces the previous set; callers must discard
// fields collected for categories that are no longer active.
func Classify(involvesIncident, involvesThreatActor Answer) []Category {
	if involvesIncident == Unanswered || involvesThreatActor == Unanswered {
		return nil
	}
	switch {
	case involvesIncident == Yes && involvesThreatActor == Yes:
		return []Category{CategoryRealWorld, CategoryMalignActor, CategorySecurityIncident}
	case involvesIncident == Yes:
		return []Category{CategoryRealWorld}
	case involvesThreatActor == Yes:
		return []Category{CategoryMalignActor, CategoryVulnerability}
	default:
		return []Category{CategoryHazard}
	}
}

// HasCategory reports whether the set contains the given category.
func HasCategory(categories []Category, c Category) bool {
	for _, cat := range categories {
		if cat == c {
			return true
		}
	}
	return false
}
