package diff_test

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/nateprice/draftlog/internal/diff"
	"github.com/nateprice/draftlog/internal/event"
)

func TestCaptureTableCases(t *testing.T) {
	at := time.Now()

	cases := []struct {
		name string
		prev string
		next string
		want []event.LogEvent
	}{
		{
			name: "no change",
			prev: "same",
			next: "same",
			want: nil,
		},
		{
			name: "append at end",
			prev: "Hello",
			next: "Hello!",
			want: []event.LogEvent{
				{Type: event.TypeInsert, Position: 5, Content: "!"},
			},
		},
		{
			name: "single char typed into empty document",
			prev: "",
			next: "H",
			want: []event.LogEvent{
				{Type: event.TypeInsert, Position: 0, Content: "H"},
			},
		},
		{
			name: "multi char insert is a paste",
			prev: "",
			next: "Hello",
			want: []event.LogEvent{
				{Type: event.TypePaste, Position: 0, Content: "Hello"},
			},
		},
		{
			name: "backspace",
			prev: "Hi",
			next: "H",
			want: []event.LogEvent{
				{Type: event.TypeDelete, Position: 1, Content: "i"},
			},
		},
		{
			name: "clear document",
			prev: "all gone",
			next: "",
			want: []event.LogEvent{
				{Type: event.TypeDelete, Position: 0, Content: "all gone"},
			},
		},
		{
			name: "mid-document insertion",
			prev: "Hello world",
			next: "Hello there world",
			want: []event.LogEvent{
				{Type: event.TypePaste, Position: 6, Content: "there "},
			},
		},
		{
			name: "full replacement emits delete first",
			prev: "cat",
			next: "dog",
			want: []event.LogEvent{
				{Type: event.TypeDelete, Position: 0, Content: "cat", ActionDetails: "Replace"},
				{Type: event.TypePaste, Position: 0, Content: "dog", ActionDetails: "Replace"},
			},
		},
		{
			name: "replace middle word",
			prev: "one two three",
			next: "one 2 three",
			want: []event.LogEvent{
				{Type: event.TypeDelete, Position: 4, Content: "two", ActionDetails: "Replace"},
				{Type: event.TypeInsert, Position: 4, Content: "2", ActionDetails: "Replace"},
			},
		},
		{
			name: "positions count runes not bytes",
			prev: "héllo",
			next: "héllos",
			want: []event.LogEvent{
				{Type: event.TypeInsert, Position: 5, Content: "s"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := diff.Capture(tc.prev, tc.next, at)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d events, want %d: %+v", len(got), len(tc.want), got)
			}
			for i, w := range tc.want {
				g := got[i]
				if g.Type != w.Type || g.Position != w.Position || g.Content != w.Content {
					t.Errorf("event %d: got {%s %d %q}, want {%s %d %q}",
						i, g.Type, g.Position, g.Content, w.Type, w.Position, w.Content)
				}
				if g.ActionDetails != w.ActionDetails {
					t.Errorf("event %d: actionDetails %q, want %q", i, g.ActionDetails, w.ActionDetails)
				}
				if !g.Timestamp.Equal(at) {
					t.Errorf("event %d: timestamp not stamped", i)
				}
			}
		})
	}
}

// applyCaptured folds captured events over prev the way the replay engine
// would, to check that the diff actually transforms prev into next.
func applyCaptured(prev string, events []event.LogEvent) string {
	buf := []rune(prev)
	for _, ev := range events {
		switch ev.Type {
		case event.TypeDelete:
			n := len([]rune(ev.Content))
			buf = append(buf[:ev.Position], buf[ev.Position+n:]...)
		case event.TypeInsert, event.TypePaste:
			ins := []rune(ev.Content)
			rest := append([]rune{}, buf[ev.Position:]...)
			buf = append(append(buf[:ev.Position], ins...), rest...)
		}
	}
	return string(buf)
}

// Property: for any pair of snapshots, applying the captured events to the
// old text yields the new text, with the delete ordered first.
func TestCaptureTransformsOldIntoNew(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		alphabet := rapid.RuneFrom([]rune("abcdeé 世\n"))
		prev := rapid.StringOfN(alphabet, 0, 30, -1).Draw(rt, "prev")
		next := rapid.StringOfN(alphabet, 0, 30, -1).Draw(rt, "next")

		events := diff.Capture(prev, next, time.Now())
		if len(events) > 2 {
			rt.Fatalf("more than two events: %+v", events)
		}
		if len(events) == 2 {
			if events[0].Type != event.TypeDelete {
				rt.Fatalf("delete not ordered first: %+v", events)
			}
			if events[0].Position != events[1].Position {
				rt.Fatalf("delete and insert disagree on position: %+v", events)
			}
		}
		if got := applyCaptured(prev, events); got != next {
			rt.Fatalf("apply(%q, events) = %q, want %q", prev, got, next)
		}
	})
}
