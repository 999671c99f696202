package store_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nateprice/draftlog/internal/event"
	"github.com/nateprice/draftlog/internal/store"
)

func sampleSession() *event.WritingSession {
	start := time.Unix(1_700_000_000, 0).UTC()
	b := event.NewBuilder("ada", start)
	b.Append(event.LogEvent{Type: event.TypeInsert, Timestamp: start, Position: 0, Content: "H"})
	b.Append(event.LogEvent{Type: event.TypeInsert, Timestamp: start.Add(time.Second), Position: 1, Content: "i"})
	return b.Finish("Hi", start.Add(time.Second))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	want := sampleSession()

	if err := store.Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.ID != want.ID || got.Author != want.Author || got.FinalText != want.FinalText {
		t.Errorf("metadata mismatch: got %+v", got)
	}
	if len(got.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(got.Events))
	}
	if got.Events[1].Content != "i" || got.Events[1].RelativeTime != 1000 {
		t.Errorf("event round-trip mismatch: %+v", got.Events[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := store.Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, store.ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestDecodeRejectsInvalidLogs(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "not json at all"},
		{"empty object", "{}"},
		{"missing id", `{"events":[],"finalText":""}`},
		{"empty id", `{"id":"","events":[],"finalText":""}`},
		{"missing events", `{"id":"x","finalText":""}`},
		{"missing finalText", `{"id":"x","events":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Decode([]byte(tc.data)); !errors.Is(err, store.ErrInvalidLog) {
				t.Errorf("err = %v, want ErrInvalidLog", err)
			}
		})
	}
}

func TestDecodeAcceptsMinimalLog(t *testing.T) {
	s, err := store.Decode([]byte(`{"id":"x","events":[],"finalText":""}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != "x" || s.Events == nil {
		t.Errorf("decoded session %+v", s)
	}
}

func TestAutosaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	now := time.Now()

	saved := &store.Autosave{
		Author:    "ada",
		Text:      "draft so far",
		Status:    "recording",
		StartTime: now.Add(-time.Hour),
		Events: []event.LogEvent{
			{ID: "e1", Type: event.TypePaste, Timestamp: now.Add(-time.Hour), Content: "draft so far"},
		},
		LastEventTime: now.Add(-time.Minute),
		SavedAt:       now,
	}
	if err := store.SaveAutosave(path, saved); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadAutosave(path, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != saved.Text || len(got.Events) != 1 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestAutosaveStaleness(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	savedAt := time.Now()

	if err := store.SaveAutosave(path, &store.Autosave{SavedAt: savedAt}); err != nil {
		t.Fatal(err)
	}

	// Just inside the window loads fine.
	if _, err := store.LoadAutosave(path, savedAt.Add(store.AutosaveMaxAge)); err != nil {
		t.Errorf("at 48h exactly: err = %v, want nil", err)
	}
	// Beyond 48 hours is stale.
	_, err := store.LoadAutosave(path, savedAt.Add(store.AutosaveMaxAge+time.Minute))
	if !errors.Is(err, store.ErrStaleAutosave) {
		t.Errorf("past 48h: err = %v, want ErrStaleAutosave", err)
	}
}

func TestDeleteAutosaveMissingIsFine(t *testing.T) {
	if err := store.DeleteAutosave(filepath.Join(t.TempDir(), "none.json")); err != nil {
		t.Errorf("deleting a missing autosave: %v", err)
	}
}
