// Package replay reconstructs document text from an ordered event log at an
// arbitrary elapsed time, and drives playback through a virtual clock.
package replay

import "github.com/nateprice/draftlog/internal/event"

// Reconstruct returns the document text as it existed at elapsedMS
// milliseconds into the session. It is a pure function of its arguments:
// it folds the text-affecting events with RelativeTime <= elapsedMS, in
// order, over an initially empty buffer. Arbitrary non-monotonic target
// times are fine; each call folds from scratch.
func Reconstruct(events []event.LogEvent, elapsedMS int64) string {
	var buf []rune
	for _, ev := range events {
		if ev.RelativeTime > elapsedMS {
			break
		}
		buf = Apply(buf, ev)
	}
	return string(buf)
}

// Apply folds a single event into buf and returns the updated buffer.
// Non-text events pass through unchanged. Out-of-range positions and
// lengths are clamped rather than rejected so that hand-edited or
// corrupted logs remain inspectable.
func Apply(buf []rune, ev event.LogEvent) []rune {
	switch ev.Type {
	case event.TypeInsert, event.TypePaste:
		return splice(buf, ev.Position, ev.Content)
	case event.TypeDelete:
		n := len([]rune(ev.Content))
		if n == 0 {
			// Legacy logs recorded single-character deletes without content.
			n = 1
		}
		return remove(buf, ev.Position, n)
	}
	return buf
}

// splice inserts text into buf at pos, clamping pos into [0, len(buf)].
func splice(buf []rune, pos int, text string) []rune {
	if pos < 0 {
		pos = 0
	}
	if pos > len(buf) {
		pos = len(buf)
	}
	ins := []rune(text)
	out := make([]rune, 0, len(buf)+len(ins))
	out = append(out, buf[:pos]...)
	out = append(out, ins...)
	out = append(out, buf[pos:]...)
	return out
}

// remove deletes n runes from buf starting at pos, clamping both into range.
func remove(buf []rune, pos, n int) []rune {
	if pos < 0 {
		pos = 0
	}
	if pos > len(buf) {
		pos = len(buf)
	}
	if n < 0 {
		n = 0
	}
	if pos+n > len(buf) {
		n = len(buf) - pos
	}
	out := make([]rune, 0, len(buf)-n)
	out = append(out, buf[:pos]...)
	out = append(out, buf[pos+n:]...)
	return out
}
