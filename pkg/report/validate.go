package report

import (
	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
	"github.com/aiflawlab/sdk/pkg/submission"
)

// Validate checks the submission against the required field list and returns
// every missing field name, in the order the requirements were given. A
// field is missing when the key is absent, the value is nil, an empty
// string, or an empty list. Whitespace-only strings count as answered; the
// check is exact-empty only. The submission is never mutated.
func Validate(sub submission.Submission, required []string) []string {
	var missing []string
	for _, field := range required {
		if sub.IsEmpty(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// ValidateForSubmit runs Validate and wraps a non-empty result in a
// ValidationError carrying the full missing list, never just the first
// failure.
func ValidateForSubmit(sub submission.Submission, required []string) error {
	if missing := Validate(sub, required); len(missing) > 0 {
		return sdkerrors.Missing(missing)
	}
	return nil
}
