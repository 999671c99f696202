// Package report renders a session analysis into human- and
// machine-readable documents.
package report

import (
	"time"

	"github.com/nateprice/draftlog/internal/event"
	"github.com/nateprice/draftlog/internal/segment"
)

// Report pairs a session's metadata with its analysis result.
type Report struct {
	Session SessionMeta    `json:"session"`
	Result  segment.Result `json:"result"`
}

// SessionMeta holds summary metadata about the analyzed session.
type SessionMeta struct {
	ID        string     `json:"id"`
	Author    string     `json:"author,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  string     `json:"duration"` // human-readable
	Events    int        `json:"events"`
}

// New builds a Report from a session and its segmentation result.
func New(s *event.WritingSession, res segment.Result) *Report {
	dur := time.Duration(s.Duration()) * time.Millisecond
	return &Report{
		Session: SessionMeta{
			ID:        s.ID,
			Author:    s.Author,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Duration:  dur.Round(time.Second).String(),
			Events:    len(s.Events),
		},
		Result: res,
	}
}

// Renderer serializes a Report to bytes.
type Renderer interface {
	Render(r *Report) ([]byte, error)
}
