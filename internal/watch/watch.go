// Package watch is the capture collaborator: it observes one document file
// with fsnotify and turns each saved snapshot into minimal insert/delete
// events on the session log.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/nateprice/draftlog/internal/diff"
	"github.com/nateprice/draftlog/internal/event"
	"github.com/nateprice/draftlog/internal/store"
)

// Recorder watches a single document and appends captured events to the
// session builder. One Recorder is the single logical writer of its
// session; nothing else appends concurrently.
type Recorder struct {
	// Path is the document file to watch.
	Path string
	// Builder receives the captured events.
	Builder *event.Builder
	// Author is stamped on autosave snapshots.
	Author string
	// AutosavePath, when set, receives a periodic crash-recovery snapshot.
	AutosavePath string
	// AutosaveInterval defaults to 30 seconds.
	AutosaveInterval time.Duration
	// Log receives watcher lifecycle and capture events.
	Log zerolog.Logger

	last string // previous document snapshot
}

// Init reads the document's current content as the capture baseline. A
// non-empty pre-existing document is logged as one paste event at position
// zero so that replaying from an empty buffer reproduces it.
func (r *Recorder) Init(now time.Time) error {
	data, err := os.ReadFile(r.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read document: %w", err)
	}

	r.Builder.Append(event.LogEvent{
		Type:      event.TypeFocus,
		Timestamp: now,
		Position:  -1,
	})

	if len(data) > 0 {
		text := string(data)
		r.Builder.Append(event.LogEvent{
			Type:          event.TypePaste,
			Timestamp:     now,
			Position:      0,
			Content:       text,
			ActionDetails: "initial",
		})
		r.last = text
	}
	return nil
}

// Resume seeds the baseline from an autosave snapshot instead of emitting
// an initial paste.
func (r *Recorder) Resume(text string) {
	r.last = text
}

// Text returns the most recent captured snapshot.
func (r *Recorder) Text() string { return r.last }

// Run watches the document until ctx is cancelled. The parent directory is
// watched rather than the file itself because editors commonly replace
// files by rename, which drops a watch on the file proper.
func (r *Recorder) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(r.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	r.Log.Info().Str("file", r.Path).Msg("recording")

	interval := r.AutosaveInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	autosave := time.NewTicker(interval)
	defer autosave.Stop()

	target, err := filepath.Abs(r.Path)
	if err != nil {
		target = r.Path
	}

	for {
		select {
		case <-ctx.Done():
			r.Builder.Append(event.LogEvent{
				Type:      event.TypeBlur,
				Timestamp: time.Now(),
				Position:  -1,
			})
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if err := r.captureChange(time.Now()); err != nil {
				// Transient read failures (editor mid-rename) resolve on
				// the next write; keep watching.
				r.Log.Warn().Err(err).Msg("snapshot capture failed")
			}

		case <-autosave.C:
			if r.AutosavePath == "" {
				continue
			}
			if err := r.saveSnapshot(time.Now()); err != nil {
				r.Log.Warn().Err(err).Msg("autosave failed")
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; keep recording.
			r.Log.Warn().Err(werr).Msg("watcher error")
		}
	}
}

// captureChange reads the document and appends the diff against the
// previous snapshot.
func (r *Recorder) captureChange(now time.Time) error {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return err
	}
	r.ApplySnapshot(string(data), now)
	return nil
}

// ApplySnapshot diffs text against the previous snapshot and appends the
// resulting events.
func (r *Recorder) ApplySnapshot(text string, now time.Time) {
	events := diff.Capture(r.last, text, now)
	for _, ev := range events {
		stamped := r.Builder.Append(ev)
		r.Log.Debug().
			Str("type", string(stamped.Type)).
			Int("position", stamped.Position).
			Int("chars", len([]rune(stamped.Content))).
			Msg("captured")
	}
	r.last = text
}

func (r *Recorder) saveSnapshot(now time.Time) error {
	events := r.Builder.Events()
	lastEvent := r.Builder.StartTime()
	if n := len(events); n > 0 {
		lastEvent = events[n-1].Timestamp
	}
	return store.SaveAutosave(r.AutosavePath, &store.Autosave{
		Author:        r.Author,
		Text:          r.last,
		Status:        "recording",
		StartTime:     r.Builder.StartTime(),
		Events:        events,
		LastEventTime: lastEvent,
		SavedAt:       now,
	})
}
