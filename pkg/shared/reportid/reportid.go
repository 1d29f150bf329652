// Package reportid provides report identifier generation: session-assigned
// UUIDs and deterministic content-derived ids for submissions that arrive
// without one.
package reportid

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// DerivedLength is the length of a content-derived report id in hex chars.
const DerivedLength = 12

// New returns a fresh session report id.
func New() string {
	return uuid.New().String()
}

// Derive computes a short deterministic id from the sorted-key JSON encoding
// of the submission. Re-building the same content yields the same id, so
// re-edits without a pre-assigned id stay idempotent.
//
// encoding/json marshals map keys in sorted order, which is what makes the
// encoding canonical here.
func Derive(fields map[string]any) string {
	data, err := json.Marshal(fields)
	if err != nil {
		// Maps of JSON-compatible values cannot fail to marshal; anything
		// else still deserves a stable (if degenerate) id.
		data = []byte("unencodable")
	}
	return Hash(string(data))[:DerivedLength]
}

// Hash computes the SHA256 hash of the input string.
// Returns 64 hex characters.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
