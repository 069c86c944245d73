// Package contacted persists the domain -> last-contacted-at mapping that
// keeps the pipeline from emailing the same company twice.
//
// The store is a flat JSON document rewritten in full on every update.
// There is no locking: the pipeline runs single-instance per identity and
// concurrent writers would be last-write-wins.
package contacted

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/normalize"
)

// Store reads and writes the contacted-companies file.
type Store struct {
	path string
}

// NewStore returns a store backed by the JSON file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the full mapping of normalized domain -> RFC 3339 timestamp.
// An absent, unreadable, or malformed file yields an empty map, never an
// error: losing dedup history degrades to re-contacting, which the
// confirmation step guards against.
func (s *Store) Load() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return map[string]string{}
	}
	return out
}

// Record marks domain as contacted at now. It re-reads the file so entries
// written since Load are merged rather than clobbered, then writes the full
// document back. Last write wins per key.
func (s *Store) Record(domain string, now time.Time) error {
	data := s.Load()
	data[normalize.Domain(domain)] = now.UTC().Format(time.RFC3339)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return eris.Wrap(err, "contacted: marshal")
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return eris.Wrap(err, "contacted: write")
	}
	return nil
}
