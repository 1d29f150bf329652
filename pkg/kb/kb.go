// Package kb loads the read-only AI-system knowledge base used to resolve
// reporter-supplied system names into known system records.
package kb

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/aiflawlab/sdk/pkg/core"
	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
)

// Store is an in-memory knowledge base of AI system records. It is loaded
// once and safe for concurrent readers; there is no write path.
type Store struct {
	records []core.SystemRecord
	bySlug  map[string]*core.SystemRecord
}

var _ core.SystemLookup = (*Store)(nil)

// Load parses a knowledge base from a JSON array of system records.
func Load(data []byte) (*Store, error) {
	var records []core.SystemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, sdkerrors.E(sdkerrors.KindMalformedInput, "kb.Load", "parsing knowledge base", err)
	}
	s := &Store{
		records: records,
		bySlug:  make(map[string]*core.SystemRecord, len(records)),
	}
	for i := range s.records {
		rec := &s.records[i]
		if rec.Slug != "" {
			s.bySlug[strings.ToLower(rec.Slug)] = rec
		}
	}
	return s, nil
}

// LoadFile reads and parses a knowledge base JSON file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "kb.LoadFile", "reading knowledge base file", err)
	}
	return Load(data)
}

// Empty returns a knowledge base with no records. Every lookup misses.
func Empty() *Store {
	return &Store{bySlug: make(map[string]*core.SystemRecord)}
}

// Len returns the number of records loaded.
func (s *Store) Len() int { return len(s.records) }

// Find resolves an identifier to a system record, first by exact slug, then
// by case-insensitive substring match on name and display name. The first
// hit wins; there is no ranking. A miss returns nil, never an error.
func (s *Store) Find(identifier string) *core.SystemRecord {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		return nil
	}
	if rec, ok := s.bySlug[needle]; ok {
		return rec
	}
	for i := range s.records {
		rec := &s.records[i]
		if strings.Contains(strings.ToLower(rec.Name), needle) ||
			strings.Contains(strings.ToLower(rec.DisplayName), needle) {
			return rec
		}
	}
	return nil
}
