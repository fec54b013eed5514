// Package unresolved persists references the crawler could not
// deterministically link: anaphoric tokens needing discourse context and
// statute names that failed resolution. Records aggregate by (source, alias)
// with occurrence counts and first/last-seen timestamps for later triage.
package unresolved

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StatusPending marks a record awaiting manual triage.
const StatusPending = "pending"

// Ref is one unresolved-reference event observed during a crawl.
type Ref struct {
	// SourceLaw is the statute the reference appeared in.
	SourceLaw string

	// Alias is the unresolvable token or statute-name fragment.
	Alias string

	// SampleContext optionally describes where or why resolution failed.
	SampleContext string
}

// Record is one persisted unresolved reference, aggregated over runs.
type Record struct {
	SourceLaw     string `json:"source_law"`
	Alias         string `json:"alias"`
	FirstSeenAt   string `json:"first_seen_at"`
	LastSeenAt    string `json:"last_seen_at"`
	Count         uint64 `json:"count"`
	SampleContext string `json:"sample_context,omitempty"`
	Status        string `json:"status"`
}

// Store is the persisted collection of unresolved-reference records.
type Store struct {
	Items []Record `json:"items"`
}

// Load reads a store from a JSON file. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Store{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read unresolved store %s: %w", path, err)
	}

	var store Store
	if err := json.Unmarshal(raw, &store); err != nil {
		return nil, fmt.Errorf("failed to parse unresolved store %s: %w", path, err)
	}
	return &store, nil
}

// Merge folds this run's events into the store. Each (source, alias) pair
// keeps one record: repeats increment the counter and refresh last-seen
// rather than duplicating, and the first non-empty sample context sticks.
func (store *Store) Merge(events []Ref, now time.Time) {
	timestamp := now.UTC().Format(time.RFC3339)

	for _, event := range events {
		if existing := store.find(event.SourceLaw, event.Alias); existing != nil {
			existing.Count++
			existing.LastSeenAt = timestamp
			if existing.SampleContext == "" && event.SampleContext != "" {
				existing.SampleContext = event.SampleContext
			}
			continue
		}
		store.Items = append(store.Items, Record{
			SourceLaw:     event.SourceLaw,
			Alias:         event.Alias,
			FirstSeenAt:   timestamp,
			LastSeenAt:    timestamp,
			Count:         1,
			SampleContext: event.SampleContext,
			Status:        StatusPending,
		})
	}
}

// find returns the record for a (source, alias) pair, or nil.
func (store *Store) find(sourceLaw, alias string) *Record {
	for i := range store.Items {
		if store.Items[i].SourceLaw == sourceLaw && store.Items[i].Alias == alias {
			return &store.Items[i]
		}
	}
	return nil
}

// Save writes the store as pretty-printed JSON, creating parent directories
// as needed.
func (store *Store) Save(path string) error {
	if parent := filepath.Dir(path); parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("failed to create unresolved store directory %s: %w", parent, err)
		}
	}

	raw, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal unresolved store: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write unresolved store %s: %w", path, err)
	}
	return nil
}
