package event

import (
	"time"

	"github.com/google/uuid"
)

// Builder accumulates events for one in-progress session. It is the only
// mutable surface of the event model: the capture path owns exactly one
// Builder per recording and appends to it sequentially.
type Builder struct {
	// PauseThreshold splits total time into active and paused portions
	// when the session is finished. Zero means DefaultPauseThreshold.
	PauseThreshold time.Duration

	id      string
	author  string
	start   time.Time
	events  []LogEvent
	lastRel int64
}

// NewBuilder starts a session for author beginning at start.
func NewBuilder(author string, start time.Time) *Builder {
	return &Builder{
		id:     uuid.New().String(),
		author: author,
		start:  start,
	}
}

// ResumeBuilder reconstructs a Builder from previously captured events, e.g.
// from an autosave snapshot. Events are assumed to already carry correct
// relative times.
func ResumeBuilder(author string, start time.Time, events []LogEvent) *Builder {
	b := NewBuilder(author, start)
	b.events = append(b.events, events...)
	if n := len(events); n > 0 {
		b.lastRel = events[n-1].RelativeTime
	}
	return b
}

// StartTime returns the session start time.
func (b *Builder) StartTime() time.Time { return b.start }

// Len returns the number of events appended so far.
func (b *Builder) Len() int { return len(b.events) }

// Append stamps ev with an ID (when absent), its relative time, and its
// pause-before gap, then records it. A wall clock that steps backward is
// clamped to the previous event's relative time so the log stays
// monotonically non-decreasing. The stamped event is returned.
func (b *Builder) Append(ev LogEvent) LogEvent {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	rel := ev.Timestamp.Sub(b.start).Milliseconds()
	if rel < b.lastRel {
		rel = b.lastRel
	}
	ev.RelativeTime = rel
	ev.PauseBefore = rel - b.lastRel
	if len(b.events) == 0 {
		ev.PauseBefore = rel
	}
	b.lastRel = rel
	b.events = append(b.events, ev)
	return ev
}

// Events returns a copy of the events appended so far.
func (b *Builder) Events() []LogEvent {
	out := make([]LogEvent, len(b.events))
	copy(out, b.events)
	return out
}

// Finish seals the session: it computes the active/pause split and returns
// the completed WritingSession. The builder must not be appended to again.
func (b *Builder) Finish(finalText string, end time.Time) *WritingSession {
	threshold := b.PauseThreshold
	if threshold <= 0 {
		threshold = DefaultPauseThreshold
	}
	thresholdMS := threshold.Milliseconds()

	var pauseMS int64
	for _, ev := range b.events {
		if ev.PauseBefore > thresholdMS {
			pauseMS += ev.PauseBefore
		}
	}

	totalMS := end.Sub(b.start).Milliseconds()
	if totalMS < b.lastRel {
		totalMS = b.lastRel
	}
	activeMS := totalMS - pauseMS
	if activeMS < 0 {
		activeMS = 0
	}

	endTime := end
	return &WritingSession{
		ID:              b.id,
		Author:          b.author,
		StartTime:       b.start,
		EndTime:         &endTime,
		Events:          b.Events(),
		FinalText:       finalText,
		TotalActiveTime: activeMS,
		TotalPauseTime:  pauseMS,
	}
}

// Snapshot returns a stable copy of the in-progress session suitable for
// mid-recording analysis or autosave. EndTime is left unset.
func (b *Builder) Snapshot(currentText string) *WritingSession {
	return &WritingSession{
		ID:        b.id,
		Author:    b.author,
		StartTime: b.start,
		Events:    b.Events(),
		FinalText: currentText,
	}
}
