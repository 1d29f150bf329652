package submission

import "strings"

// Loose accessors for the converters. Unlike the typed getters, these never
// error: converters substitute defaults for anything missing or oddly typed,
// and they also read JSON-LD shaped documents, so values may arrive as []any.

// FirstString returns the first key whose value is a non-blank string, or
// def when none is.
func (s Submission) FirstString(def string, keys ...string) string {
	for _, k := range keys {
		if v, ok := s[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return def
}

// FirstList returns the first key whose value is a list, converted to
// strings with non-string elements skipped. Missing everywhere yields nil.
func (s Submission) FirstList(keys ...string) []string {
	for _, k := range keys {
		switch v := s[k].(type) {
		case []string:
			return append([]string(nil), v...)
		case []any:
			out := make([]string, 0, len(v))
			for _, el := range v {
				if str, ok := el.(string); ok {
					out = append(out, str)
				}
			}
			return out
		}
	}
	return nil
}

// NestedString walks a path of object keys and returns the string at the
// end, or "" when any step is missing or not an object.
func (s Submission) NestedString(path ...string) string {
	var cur any = map[string]any(s)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[key]
	}
	str, _ := cur.(string)
	return str
}
