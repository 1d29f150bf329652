package submission

import (
	"sort"

	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
)

// Builder accumulates submission fields section by section. Each section is
// replaced wholesale when set again, which is how category-dependent sections
// are discarded when the reporter re-answers the classification questions.
// Freeze produces the immutable flat mapping handed to the pipeline.
type Builder struct {
	sections map[string]Submission
	order    []string
	frozen   bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{sections: make(map[string]Submission)}
}

// SetSection replaces the named section with the given fields. Setting a
// section that already exists discards its previous fields entirely. Calls
// after Freeze are ignored.
func (b *Builder) SetSection(name string, fields map[string]any) {
	if b.frozen {
		return
	}
	if _, exists := b.sections[name]; !exists {
		b.order = append(b.order, name)
	}
	b.sections[name] = Submission(fields).Clone()
}

// DropSection removes the named section. Used when a reclassification makes
// a previously collected section inapplicable.
func (b *Builder) DropSection(name string) {
	if b.frozen {
		return
	}
	if _, exists := b.sections[name]; !exists {
		return
	}
	delete(b.sections, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Set records a single field in the "default" section.
func (b *Builder) Set(field string, value any) {
	if b.frozen {
		return
	}
	sec, exists := b.sections["default"]
	if !exists {
		sec = make(Submission)
		b.sections["default"] = sec
		b.order = append(b.order, "default")
	}
	sec[field] = value
}

// Sections lists the section names in the order they were first set.
func (b *Builder) Sections() []string {
	return append([]string(nil), b.order...)
}

// Freeze merges all sections into a single Submission, in section insertion
// order, and marks the builder immutable. Later sections win on field-name
// collisions. Freezing an empty builder is an error.
func (b *Builder) Freeze() (Submission, error) {
	merged := make(Submission)
	for _, name := range b.order {
		for k, v := range b.sections[name] {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return nil, sdkerrors.ErrEmptySubmission
	}
	b.frozen = true
	return merged, nil
}

// FieldNames returns the sorted field names currently accumulated, mainly
// for diagnostics.
func (b *Builder) FieldNames() []string {
	seen := make(map[string]struct{})
	for _, sec := range b.sections {
		for k := range sec {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
