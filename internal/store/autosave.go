package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nateprice/draftlog/internal/event"
)

// AutosaveMaxAge is how old a crash-recovery snapshot may be before it is
// considered stale and ignored.
const AutosaveMaxAge = 48 * time.Hour

// ErrStaleAutosave is returned by LoadAutosave for snapshots older than
// AutosaveMaxAge.
var ErrStaleAutosave = errors.New("autosave snapshot is stale")

// Autosave is the periodic crash-recovery snapshot of an in-progress
// recording.
type Autosave struct {
	Author        string           `json:"studentName"`
	Text          string           `json:"text"`
	Status        string           `json:"status"`
	StartTime     time.Time        `json:"startTime"`
	Events        []event.LogEvent `json:"events"`
	LastEventTime time.Time        `json:"lastEventTime"`
	SavedAt       time.Time        `json:"timestamp"`
}

// SaveAutosave writes the snapshot atomically.
func SaveAutosave(path string, a *Autosave) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to persist autosave: %w", err)
	}
	return writeAtomic(path, data)
}

// LoadAutosave reads a snapshot, rejecting snapshots older than
// AutosaveMaxAge with ErrStaleAutosave. Returns ErrNoSession when no
// snapshot exists.
func LoadAutosave(path string, now time.Time) (*Autosave, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read autosave: %w", err)
	}

	var a Autosave
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse autosave: %w", err)
	}
	if now.Sub(a.SavedAt) > AutosaveMaxAge {
		return nil, ErrStaleAutosave
	}
	return &a, nil
}

// DeleteAutosave removes the snapshot file. Missing files are not an error.
func DeleteAutosave(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete autosave: %w", err)
	}
	return nil
}
