// Package diff converts before/after document snapshots into the minimal
// insert/delete events describing the change.
package diff

import (
	"time"

	"github.com/nateprice/draftlog/internal/event"
)

// Capture compares the previous and new document text surrounding one
// user-visible edit and returns the zero, one, or two events needed to
// transform prev into next: a delete (ordered first, positions computed
// against the pre-delete buffer) followed by an insert. Inserted spans
// longer than one character are tagged as paste events.
//
// The events carry only Type, Timestamp, Position, Content, and
// ActionDetails; the session builder stamps IDs and relative times on
// append.
func Capture(prev, next string, at time.Time) []event.LogEvent {
	if prev == next {
		return nil
	}

	oldRunes := []rune(prev)
	newRunes := []rune(next)
	p, s := trim(oldRunes, newRunes)

	removed := string(oldRunes[p : len(oldRunes)-s])
	inserted := string(newRunes[p : len(newRunes)-s])

	details := ""
	if removed != "" && inserted != "" {
		details = "Replace"
	}

	var events []event.LogEvent
	if removed != "" {
		events = append(events, event.LogEvent{
			Type:          event.TypeDelete,
			Timestamp:     at,
			Position:      p,
			Content:       removed,
			ActionDetails: details,
		})
	}
	if inserted != "" {
		typ := event.TypeInsert
		if len([]rune(inserted)) > 1 {
			typ = event.TypePaste
		}
		events = append(events, event.LogEvent{
			Type:          typ,
			Timestamp:     at,
			Position:      p,
			Content:       inserted,
			ActionDetails: details,
		})
	}
	return events
}

// trim computes the longest common prefix length p and the longest common
// suffix length s of old and new, with s bounded so the two regions never
// overlap (p + s <= min(len(old), len(new))).
func trim(old, new []rune) (p, s int) {
	min := len(old)
	if len(new) < min {
		min = len(new)
	}

	for p < min && old[p] == new[p] {
		p++
	}

	maxSuffix := min - p
	for s < maxSuffix && old[len(old)-1-s] == new[len(new)-1-s] {
		s++
	}
	return p, s
}
