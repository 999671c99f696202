// Package store persists writing sessions as flat JSON log files and
// validates imported logs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nateprice/draftlog/internal/event"
)

// ErrNoSession is returned by Load when no session file exists at the path.
var ErrNoSession = errors.New("no session file")

// ErrInvalidLog is returned when an imported log is missing required
// fields. Nothing is partially loaded.
var ErrInvalidLog = errors.New("invalid session log")

// Save marshals the session and writes it atomically via a temp file and
// os.Rename in the destination directory.
func Save(path string, s *event.WritingSession) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return writeAtomic(path, data)
}

// Load reads and validates a session log file. A file missing any of the
// required fields (a present id, an events array, a defined finalText) is
// rejected with ErrInvalidLog.
func Load(path string) (*event.WritingSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session log: %w", err)
	}
	return Decode(data)
}

// Decode validates and unmarshals an exported session log.
func Decode(data []byte) (*event.WritingSession, error) {
	// Probe for field presence first: "id" must be non-empty, "events"
	// must be an array, "finalText" must be defined (empty string is fine).
	var probe struct {
		ID        *string           `json:"id"`
		Events    *[]event.LogEvent `json:"events"`
		FinalText *string           `json:"finalText"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLog, err)
	}
	switch {
	case probe.ID == nil || *probe.ID == "":
		return nil, fmt.Errorf("%w: missing id", ErrInvalidLog)
	case probe.Events == nil:
		return nil, fmt.Errorf("%w: missing events array", ErrInvalidLog)
	case probe.FinalText == nil:
		return nil, fmt.Errorf("%w: missing finalText", ErrInvalidLog)
	}

	var s event.WritingSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLog, err)
	}
	if s.Events == nil {
		s.Events = []event.LogEvent{}
	}
	return &s, nil
}

// writeAtomic writes data to path via a sibling temp file so the rename is
// atomic on the same filesystem.
func writeAtomic(path string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".draftlog-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
