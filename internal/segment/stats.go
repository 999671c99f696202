package segment

import (
	"strings"

	"github.com/nateprice/draftlog/internal/event"
)

// Stats summarizes one session for reporting and for downstream feedback
// collaborators.
type Stats struct {
	WordCount      int     `json:"wordCount"`
	WordsPerMinute float64 `json:"wordsPerMinute"`
	TypoCount      int     `json:"typoCount"`
	RevisionCount  int     `json:"revisionCount"`
	InsertionCount int     `json:"insertionCount"`
	PauseCount     int     `json:"pauseCount"`

	// ActiveTime and PauseTime are carried over from the session, in
	// milliseconds.
	ActiveTime int64 `json:"activeTimeMs"`
	PauseTime  int64 `json:"pauseTimeMs"`

	// NetChars is the time-bucketed net-character series: each bucket holds
	// cumulative inserted minus deleted characters up to that bucket's time
	// boundary.
	NetChars []int `json:"netChars"`
}

func computeStats(s *event.WritingSession, res Result, cfg Config) Stats {
	st := Stats{
		WordCount:      len(strings.Fields(s.FinalText)),
		PauseCount:     len(res.Pauses),
		InsertionCount: len(res.Insertions),
		ActiveTime:     s.TotalActiveTime,
		PauseTime:      s.TotalPauseTime,
	}

	for _, d := range res.Deletions {
		if d.Kind == DeletionTypo {
			st.TypoCount++
		} else {
			st.RevisionCount++
		}
	}

	if minutes := float64(s.TotalActiveTime) / 60_000; minutes > 0 {
		st.WordsPerMinute = float64(st.WordCount) / minutes
	}

	st.NetChars = netCharSeries(s.Events, cfg)
	return st
}

// netCharSeries buckets cumulative insert-minus-delete character counts
// over the session's duration. Above the sample cutoff it walks the event
// array with a fixed stride, trading minor accuracy for a bounded cost per
// bucket.
func netCharSeries(events []event.LogEvent, cfg Config) []int {
	buckets := cfg.BucketCount
	if buckets <= 0 {
		buckets = DefaultConfig().BucketCount
	}
	series := make([]int, buckets)
	if len(events) == 0 {
		return series
	}

	duration := events[len(events)-1].RelativeTime
	stride := 1
	if cfg.SampleCutoff > 0 && len(events) > cfg.SampleCutoff {
		stride = len(events) / cfg.SampleCutoff
	}

	net := 0
	bucket := 0
	for i := 0; i < len(events); i += stride {
		ev := events[i]

		// Close every bucket whose boundary this event has passed.
		for bucket < buckets-1 && duration > 0 &&
			ev.RelativeTime > boundary(duration, bucket, buckets) {
			series[bucket] = net
			bucket++
		}

		n := len([]rune(ev.Content)) * stride
		switch ev.Type {
		case event.TypeInsert, event.TypePaste:
			net += n
		case event.TypeDelete:
			if n == 0 {
				n = stride
			}
			net -= n
		}
	}
	for ; bucket < buckets; bucket++ {
		series[bucket] = net
	}
	return series
}

// boundary returns the relative-time upper bound of bucket i of n.
func boundary(duration int64, i, n int) int64 {
	return duration * int64(i+1) / int64(n)
}
