// Package submission holds the flat field-to-value mapping a reporter fills
// in, the builder that accumulates it section by section, and the loose
// loaders the converters share.
package submission

import (
	"fmt"
	"strings"

	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
)

// Submission is a flat mapping from canonical field name to the value the
// reporter supplied. Values are free text strings, selection strings, string
// lists, booleans, or nil for fields never answered.
type Submission map[string]any

// Clone returns a shallow copy. List values are copied one level deep so the
// caller cannot mutate the original through the clone.
func (s Submission) Clone() Submission {
	if s == nil {
		return nil
	}
	out := make(Submission, len(s))
	for k, v := range s {
		if list, ok := v.([]string); ok {
			out[k] = append([]string(nil), list...)
			continue
		}
		out[k] = v
	}
	return out
}

// Has reports whether the field is present at all, answered or not.
func (s Submission) Has(field string) bool {
	_, ok := s[field]
	return ok
}

// IsEmpty reports whether the field is absent, nil, an empty string, or an
// empty list. Whitespace-only strings and false booleans count as answered.
func (s Submission) IsEmpty(field string) bool {
	v, ok := s[field]
	if !ok || v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// GetString returns the field as a string. Absent and nil values yield "".
// Any other type is a malformed-input error; values are never coerced.
func (s Submission) GetString(field string) (string, error) {
	v, ok := s[field]
	if !ok || v == nil {
		return "", nil
	}
	str, ok := v.(string)
	if !ok {
		return "", sdkerrors.Malformed(field, fmt.Sprintf("expected string, got %T", v))
	}
	return str, nil
}

// GetStringList returns the field as a string list. Absent and nil values
// yield nil. JSON-decoded []any lists are accepted when every element is a
// string; anything else is a malformed-input error.
func (s Submission) GetStringList(field string) ([]string, error) {
	v, ok := s[field]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), nil
	case []any:
		out := make([]string, 0, len(t))
		for i, el := range t {
			str, ok := el.(string)
			if !ok {
				return nil, sdkerrors.Malformed(field, fmt.Sprintf("element %d: expected string, got %T", i, el))
			}
			out = append(out, str)
		}
		return out, nil
	}
	return nil, sdkerrors.Malformed(field, fmt.Sprintf("expected string list, got %T", v))
}

// GetBool returns the field as a boolean. Absent and nil values yield false.
func (s Submission) GetBool(field string) (bool, error) {
	v, ok := s[field]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, sdkerrors.Malformed(field, fmt.Sprintf("expected bool, got %T", v))
	}
	return b, nil
}

// StringOr returns the field as a string, or def when the field is absent,
// nil, empty, or not a string.
func (s Submission) StringOr(field, def string) string {
	v, err := s.GetString(field)
	if err != nil || v == "" {
		return def
	}
	return v
}

// StripDetailMarker removes the detailed-description prefix marker when
// present and trims surrounding whitespace.
func StripDetailMarker(text string) string {
	return strings.TrimSpace(strings.TrimPrefix(text, DetailMarker))
}

// SelectionWithOther pairs a multi-select answer with the free-text value
// collected when the reporter picked "Other".
type SelectionWithOther struct {
	Selected  []string
	OtherText string
}

// Values returns the selected options with "Other" replaced by the free-text
// answer when one was given. The original slice is not modified.
func (sw SelectionWithOther) Values() []string {
	out := make([]string, 0, len(sw.Selected))
	for _, sel := range sw.Selected {
		if sel == "Other" && sw.OtherText != "" {
			out = append(out, sw.OtherText)
			continue
		}
		out = append(out, sel)
	}
	return out
}
