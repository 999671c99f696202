// Package event defines the canonical writing-session event log: the
// immutable LogEvent record, the WritingSession container, and the Builder
// that the capture path uses to append events and finish a session.
package event

import "time"

// Type identifies the kind of logged action.
type Type string

const (
	TypeInsert     Type = "insert"
	TypeDelete     Type = "delete"
	TypePaste      Type = "paste"
	TypeNavigation Type = "navigation"
	TypeFocus      Type = "focus"
	TypeBlur       Type = "blur"
)

// TextAffecting reports whether events of this type change document text.
func (t Type) TextAffecting() bool {
	return t == TypeInsert || t == TypeDelete || t == TypePaste
}

// DefaultPauseThreshold is the gap between consecutive events above which
// the gap counts as a pause.
const DefaultPauseThreshold = 2000 * time.Millisecond

// LogEvent is the immutable record of one atomic change or signal.
// Events are write-once: nothing mutates a LogEvent after it is appended.
type LogEvent struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`

	// Timestamp is the absolute wall-clock time of the event.
	Timestamp time.Time `json:"timestamp"`

	// RelativeTime is milliseconds elapsed since session start. It is
	// non-decreasing across the log.
	RelativeTime int64 `json:"relativeTime"`

	// Position is the 0-based character (rune) offset in the document at
	// the moment of the event, or -1 for window-level focus/blur signals.
	Position int `json:"position"`

	// Content is the text inserted or deleted. Absent for pure navigation
	// and focus/blur signals.
	Content string `json:"content,omitempty"`

	// PauseBefore is milliseconds since the previous logged event, or
	// since session start for the first event.
	PauseBefore int64 `json:"pauseBefore"`

	// ActionDetails is a free-form tag, e.g. a key name or "Replace".
	ActionDetails string `json:"actionDetails,omitempty"`
}

// WritingSession is the unit of analysis: one author's full recorded log.
// Field names follow the interchange schema, so a session marshals directly
// to the export format and back.
type WritingSession struct {
	ID        string     `json:"id"`
	Author    string     `json:"studentName"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`

	Events []LogEvent `json:"events"`

	FinalText string `json:"finalText"`

	// TotalActiveTime is the total elapsed session time in milliseconds
	// minus time spent in pauses exceeding the pause threshold.
	TotalActiveTime int64 `json:"totalActiveTime"`

	// TotalPauseTime is the summed duration in milliseconds of all gaps
	// exceeding the pause threshold.
	TotalPauseTime int64 `json:"totalPauseTime"`
}

// Duration returns the relative time of the last event in milliseconds,
// or zero for an empty log.
func (s *WritingSession) Duration() int64 {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].RelativeTime
}
