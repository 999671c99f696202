// Package index maintains the JSON library index of recorded sessions that
// powers `draftlog list`.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Entry summarizes one finished session in the library.
type Entry struct {
	SessionID  string    `json:"session_id"`
	Path       string    `json:"path"` // relative to the library root
	Author     string    `json:"author,omitempty"`
	Date       string    `json:"date"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"created_at"`
	DurationMS int64     `json:"duration_ms"`
	Events     int       `json:"events"`

	// Filled in once the session has been analyzed.
	Words    int     `json:"words,omitempty"`
	WPM      float64 `json:"wpm,omitempty"`
	Archived bool    `json:"archived,omitempty"`
}

// Index manages the index.json file at the library root.
type Index struct {
	path    string
	Entries map[string]Entry // keyed by session id
}

// Load reads the index, creating an empty one when none exists yet.
func Load(path string) (*Index, error) {
	idx := &Index{path: path, Entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	if err := json.Unmarshal(data, &idx.Entries); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return idx, nil
}

// Save writes the index to disk.
func (idx *Index) Save() error {
	if err := os.MkdirAll(filepath.Dir(idx.path), 0o755); err != nil {
		return fmt.Errorf("create library dir: %w", err)
	}
	data, err := json.MarshalIndent(idx.Entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return os.WriteFile(idx.path, data, 0o644)
}

// Add inserts or updates an entry.
func (idx *Index) Add(e Entry) {
	idx.Entries[e.SessionID] = e
}

// Has reports whether a session is already indexed.
func (idx *Index) Has(sessionID string) bool {
	_, ok := idx.Entries[sessionID]
	return ok
}

// Sorted returns entries newest-first.
func (idx *Index) Sorted() []Entry {
	out := make([]Entry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}
