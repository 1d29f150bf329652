package submission

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
)

// LoadAny normalizes the loose inputs the converters accept into a
// Submission. Supported inputs: a Submission or map[string]any (copied), a
// []byte or json.RawMessage holding a JSON object, and a string holding
// either a path to a JSON file or raw JSON text. Anything else is a
// malformed-input error.
func LoadAny(input any) (Submission, error) {
	switch v := input.(type) {
	case nil:
		return nil, sdkerrors.Malformed("input", "nil input")
	case Submission:
		return v.Clone(), nil
	case map[string]any:
		return Submission(v).Clone(), nil
	case json.RawMessage:
		return unmarshalObject([]byte(v))
	case []byte:
		return unmarshalObject(v)
	case string:
		return loadString(v)
	}
	return nil, sdkerrors.Malformed("input", fmt.Sprintf("unsupported input type %T", input))
}

func loadString(s string) (Submission, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, sdkerrors.Malformed("input", "empty input string")
	}
	// Raw JSON text is recognized by its leading brace; everything else is
	// treated as a file path.
	if strings.HasPrefix(trimmed, "{") {
		return unmarshalObject([]byte(trimmed))
	}
	data, err := os.ReadFile(s)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sdkerrors.E(sdkerrors.KindNotFound, "submission.LoadAny", fmt.Sprintf("no such file: %s", s), err)
		}
		return nil, sdkerrors.E(sdkerrors.KindMalformedInput, "submission.LoadAny", "reading input file", err)
	}
	return unmarshalObject(data)
}

func unmarshalObject(data []byte) (Submission, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, sdkerrors.E(sdkerrors.KindMalformedInput, "submission.LoadAny", "input is not a JSON object", err)
	}
	return Submission(raw), nil
}
