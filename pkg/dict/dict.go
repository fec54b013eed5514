// Package dict maintains the statute name dictionary: a persisted mapping
// from normalized alias tokens (titles, abbreviations, statute numbers) to a
// resolved statute identity. The dictionary is learned incrementally from
// confirmed searches and fetches, and a dirty flag gates persistence so an
// unchanged dictionary is never rewritten.
package dict

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coolbeans/lawnote/pkg/title"
)

// Entry is the resolved identity an alias maps to.
type Entry struct {
	// LawID is the stable statute identifier, when known.
	LawID string `json:"law_id,omitempty"`

	// LawNum is the statute number, when known.
	LawNum string `json:"law_num,omitempty"`

	// LawTitle is the canonical statute name.
	LawTitle string `json:"law_title"`
}

// Dictionary maps normalized alias tokens to resolved statute identities.
// Keys are always outputs of title.Normalize (or verbatim statute numbers and
// registered abbreviations) so lookups behave the same whichever surface form
// produced them. Entries are insert-if-absent: the first registered identity
// for an alias wins, so a later worse match never displaces a confirmed one.
type Dictionary struct {
	entries map[string]Entry
	dirty   bool
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{entries: make(map[string]Entry)}
}

// Load reads a dictionary from a JSON file. A missing file yields an empty
// dictionary, not an error.
func Load(path string) (*Dictionary, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}

	entries := make(map[string]Entry)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary %s: %w", path, err)
	}
	return &Dictionary{entries: entries}, nil
}

// Save writes the dictionary as pretty-printed JSON, creating parent
// directories as needed. The write is skipped entirely when no insertion has
// happened since load, so unchanged state never touches the file.
func (dictionary *Dictionary) Save(path string) error {
	if !dictionary.dirty {
		return nil
	}
	if err := dictionary.Write(path); err != nil {
		return err
	}
	dictionary.dirty = false
	return nil
}

// Write unconditionally persists the dictionary to path.
func (dictionary *Dictionary) Write(path string) error {
	if parent := filepath.Dir(path); parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("failed to create dictionary directory %s: %w", parent, err)
		}
	}

	raw, err := json.MarshalIndent(dictionary.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dictionary: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write dictionary %s: %w", path, err)
	}
	return nil
}

// Lookup normalizes a statute title and returns its entry, if present. When
// normalization rejects the title, the raw form is tried as-is so statute
// numbers and registered abbreviations still resolve.
func (dictionary *Dictionary) Lookup(lawTitle string) (Entry, bool) {
	key := lawTitle
	if normalized, ok := title.Normalize(lawTitle); ok {
		key = normalized
	}
	entry, found := dictionary.entries[key]
	return entry, found
}

// Register inserts an alias for an entry unless the alias is already taken.
// Aliases that fail normalization are ignored. Reports whether an insertion
// happened.
func (dictionary *Dictionary) Register(alias string, entry Entry) bool {
	normalized, ok := title.Normalize(alias)
	if !ok {
		return false
	}
	return dictionary.insert(normalized, entry)
}

// RegisterVerbatim inserts an alias without normalization, used for statute
// numbers and official abbreviations that carry no statute-type suffix.
func (dictionary *Dictionary) RegisterVerbatim(alias string, entry Entry) bool {
	if alias == "" {
		return false
	}
	return dictionary.insert(alias, entry)
}

// insert adds a key if absent and marks the dictionary dirty.
func (dictionary *Dictionary) insert(key string, entry Entry) bool {
	if _, exists := dictionary.entries[key]; exists {
		return false
	}
	dictionary.entries[key] = entry
	dictionary.dirty = true
	return true
}

// ResolveFragment maps a raw statute-name fragment to a canonical title.
// Exact normalized match wins; otherwise the longest dictionary key contained
// in the normalized token is used (longest-match tie-break limits false
// positives from short keys embedded in longer unrelated tokens); with no
// dictionary hit the normalized token itself is returned as provisional.
// Reports false when the fragment does not normalize at all.
func (dictionary *Dictionary) ResolveFragment(fragment string) (string, bool) {
	normalized, ok := title.Normalize(fragment)
	if !ok {
		return "", false
	}

	if entry, found := dictionary.entries[normalized]; found {
		return entry.LawTitle, true
	}

	var best string
	for key := range dictionary.entries {
		if strings.Contains(normalized, key) && len(key) > len(best) {
			best = key
		}
	}
	if best != "" {
		return dictionary.entries[best].LawTitle, true
	}
	return normalized, true
}

// Len returns the number of aliases in the dictionary.
func (dictionary *Dictionary) Len() int {
	return len(dictionary.entries)
}

// Dirty reports whether the dictionary has unsaved insertions.
func (dictionary *Dictionary) Dirty() bool {
	return dictionary.dirty
}

// Clear discards all entries and marks the dictionary dirty, for full
// rebuilds from the API listing.
func (dictionary *Dictionary) Clear() {
	dictionary.entries = make(map[string]Entry)
	dictionary.dirty = true
}
