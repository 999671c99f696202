// Package segment derives behavioral groups and summary statistics from a
// writing-session event log: pauses, deletion groups (typo vs. revision,
// with linked replacements), non-linear insertion groups, and per-session
// stats. Everything here is recomputed from scratch per analysis request;
// nothing is incrementally maintained between calls.
package segment

import (
	"strings"
	"time"

	"github.com/nateprice/draftlog/internal/event"
	"github.com/nateprice/draftlog/internal/replay"
)

// Config holds the named thresholds driving segmentation. Tests override
// individual fields; production code uses DefaultConfig, optionally
// adjusted from the user's config file.
type Config struct {
	// PauseThreshold is the gap above which a Pause is recorded and
	// above which consecutive deletes stop being sequential.
	PauseThreshold time.Duration

	// TypoMaxRunes classifies a deletion group as a typo when it removed
	// strictly fewer than this many characters.
	TypoMaxRunes int

	// ReplacementWindow bounds how long after a deletion group finishes a
	// same-position insert still counts as its replacement.
	ReplacementWindow time.Duration

	// ParagraphCutoff promotes an insertion group to paragraph level when
	// its combined content exceeds this many characters (a line break
	// promotes regardless).
	ParagraphCutoff int

	// BucketCount is the number of buckets in the net-character series.
	BucketCount int

	// ContextRunes is how much trailing buffer text a pause record keeps.
	ContextRunes int

	// SampleCutoff is the event count above which the net-character series
	// switches to fixed-stride sampling.
	SampleCutoff int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		PauseThreshold:    event.DefaultPauseThreshold,
		TypoMaxRunes:      3,
		ReplacementWindow: 5000 * time.Millisecond,
		ParagraphCutoff:   80,
		BucketCount:       40,
		ContextRunes:      40,
		SampleCutoff:      10_000,
	}
}

// PauseLocation is the coarse classifier of where in the text a pause
// happened, judged by the last character of the reconstructed text at the
// moment the pause began.
type PauseLocation string

const (
	LocationDocumentStart     PauseLocation = "document-start"
	LocationParagraphBoundary PauseLocation = "paragraph-boundary"
	LocationSentenceBoundary  PauseLocation = "sentence-boundary"
	LocationWordBoundary      PauseLocation = "word-boundary"
	LocationMidWord           PauseLocation = "mid-word"
)

// Pause records a gap exceeding the pause threshold between consecutive
// events.
type Pause struct {
	// Start is the relative time in milliseconds at which the gap began.
	Start int64
	// Duration is the gap length in milliseconds.
	Duration int64
	// Context is the trailing text of the document just before the gap.
	Context  string
	Location PauseLocation
}

// DeletionKind classifies a deletion group by size.
type DeletionKind string

const (
	DeletionTypo     DeletionKind = "typo"
	DeletionRevision DeletionKind = "revision"
)

// DeletionGroup is a maximal run of sequential delete events.
type DeletionGroup struct {
	Kind DeletionKind
	// Position is the character offset where the group's surviving gap
	// begins, i.e. the lowest position reached while deleting.
	Position int
	// Content holds the deleted characters in document order.
	Content string
	// Replacement is the text typed at the same position immediately after
	// the deletion, when delete-then-retype was detected. Empty for a pure
	// deletion.
	Replacement string
	// Start and End are the relative times in milliseconds of the first
	// and last delete in the run.
	Start, End int64
}

// Runes returns the number of characters the group deleted.
func (g DeletionGroup) Runes() int { return len([]rune(g.Content)) }

// InsertionLevel classifies an insertion group by granularity.
type InsertionLevel string

const (
	InsertionSentence  InsertionLevel = "sentence"
	InsertionParagraph InsertionLevel = "paragraph"
)

// InsertionGroup is a maximal run of strictly contiguous insert/paste
// events whose starting position was before the end of the document at the
// time: the writer moved backward to insert rather than appending.
type InsertionGroup struct {
	Level    InsertionLevel
	Position int
	Content  string
	// Start and End are the relative times in milliseconds of the first
	// and last insert in the run.
	Start, End int64
}

// Result is everything one segmentation pass produces.
type Result struct {
	Pauses     []Pause
	Deletions  []DeletionGroup
	Insertions []InsertionGroup
	Stats      Stats
}

// analyzer carries the single-pass state: the reconstructed text buffer and
// the three pending run buffers.
type analyzer struct {
	cfg Config
	buf []rune

	pendingDel *deletionRun
	pendingIns *insertionRun
	pendingRep *replacementRun

	// lastDeletion points at the most recently flushed deletion group, the
	// candidate for replacement linkage, while the window is still open.
	lastDeletion   *DeletionGroup
	lastDeletionAt time.Time

	res Result
}

type deletionRun struct {
	group DeletionGroup
	last  event.LogEvent
}

type insertionRun struct {
	g       InsertionGroup
	nextPos int
}

type replacementRun struct {
	text    string
	nextPos int
	lastAt  time.Time
}

// Analyze runs the segmentation pipeline over the session in one
// left-to-right pass and derives summary statistics. It never mutates the
// session.
func Analyze(s *event.WritingSession, cfg Config) Result {
	a := &analyzer{cfg: cfg}
	thresholdMS := cfg.PauseThreshold.Milliseconds()

	for _, ev := range s.Events {
		// Pause detection uses the buffer as it stood before this event's
		// own change, so the context shows what preceded the gap.
		if ev.PauseBefore > thresholdMS {
			a.recordPause(ev)
		}

		switch ev.Type {
		case event.TypeInsert, event.TypePaste:
			a.handleInsert(ev)
		case event.TypeDelete:
			a.handleDelete(ev)
		default:
			// Navigation and focus/blur signals are explicit segment
			// boundaries.
			a.flushDeletion()
			a.flushInsertion()
			a.flushReplacement()
		}
	}

	a.flushDeletion()
	a.flushInsertion()
	a.flushReplacement()

	a.res.Stats = computeStats(s, a.res, cfg)
	return a.res
}

func (a *analyzer) recordPause(ev event.LogEvent) {
	context := a.buf
	if n := a.cfg.ContextRunes; n > 0 && len(context) > n {
		context = context[len(context)-n:]
	}
	a.res.Pauses = append(a.res.Pauses, Pause{
		Start:    ev.RelativeTime - ev.PauseBefore,
		Duration: ev.PauseBefore,
		Context:  string(context),
		Location: classifyLocation(a.buf),
	})
}

// classifyLocation judges the pause location from the last character of the
// reconstructed text at the moment the pause began.
func classifyLocation(buf []rune) PauseLocation {
	if len(buf) == 0 {
		return LocationDocumentStart
	}
	switch last := buf[len(buf)-1]; {
	case last == '\n':
		return LocationParagraphBoundary
	case last == '.' || last == '!' || last == '?':
		return LocationSentenceBoundary
	case last == ' ' || last == '\t':
		return LocationWordBoundary
	default:
		return LocationMidWord
	}
}

func (a *analyzer) handleInsert(ev event.LogEvent) {
	// A deletion run ends once typing resumes.
	a.flushDeletion()

	if a.extendReplacement(ev) {
		a.buf = replay.Apply(a.buf, ev)
		return
	}
	a.flushReplacement()

	if ev.Position < len(a.buf) {
		// Non-linear: the writer moved backward to insert.
		if a.pendingIns != nil && ev.Position == a.pendingIns.nextPos {
			a.pendingIns.g.Content += ev.Content
			a.pendingIns.g.End = ev.RelativeTime
			a.pendingIns.nextPos += len([]rune(ev.Content))
		} else {
			a.flushInsertion()
			a.pendingIns = &insertionRun{
				g: InsertionGroup{
					Position: ev.Position,
					Content:  ev.Content,
					Start:    ev.RelativeTime,
					End:      ev.RelativeTime,
				},
				nextPos: ev.Position + len([]rune(ev.Content)),
			}
		}
	} else {
		// Linear end-of-document typing is not grouped; it just ends any
		// non-linear run in progress.
		a.flushInsertion()
	}

	a.buf = replay.Apply(a.buf, ev)
}

// extendReplacement decides whether ev belongs to an in-progress
// replacement: either the first retype at the just-flushed deletion group's
// position within the replacement window, or a strictly contiguous
// continuation of text already buffered as a replacement.
func (a *analyzer) extendReplacement(ev event.LogEvent) bool {
	if a.pendingRep != nil {
		if ev.Position == a.pendingRep.nextPos &&
			ev.Timestamp.Sub(a.pendingRep.lastAt) <= a.cfg.ReplacementWindow {
			a.pendingRep.text += ev.Content
			a.pendingRep.nextPos += len([]rune(ev.Content))
			a.pendingRep.lastAt = ev.Timestamp
			return true
		}
		return false
	}
	if a.lastDeletion != nil &&
		ev.Position == a.lastDeletion.Position &&
		ev.Timestamp.Sub(a.lastDeletionAt) <= a.cfg.ReplacementWindow {
		a.pendingRep = &replacementRun{
			text:    ev.Content,
			nextPos: ev.Position + len([]rune(ev.Content)),
			lastAt:  ev.Timestamp,
		}
		return true
	}
	return false
}

func (a *analyzer) handleDelete(ev event.LogEvent) {
	// A delete breaks a replacement chain and an insertion run.
	a.flushInsertion()
	a.flushReplacement()

	content := ev.Content
	if content == "" {
		// Legacy single-character delete logging.
		if ev.Position >= 0 && ev.Position < len(a.buf) {
			content = string(a.buf[ev.Position])
		}
	}

	if a.pendingDel != nil && a.sequentialDelete(ev) {
		run := a.pendingDel
		// Backspacing walks backward through the text, so deleted
		// characters accumulate toward the front to keep document order.
		// Forward deletes repeat at the same position and remove
		// characters in document order, so those append.
		if ev.Position < run.group.Position {
			run.group.Content = content + run.group.Content
			run.group.Position = ev.Position
		} else {
			run.group.Content += content
		}
		run.group.End = ev.RelativeTime
		run.last = ev
	} else {
		a.flushDeletion()
		a.pendingDel = &deletionRun{
			group: DeletionGroup{
				Position: ev.Position,
				Content:  content,
				Start:    ev.RelativeTime,
				End:      ev.RelativeTime,
			},
			last: ev,
		}
	}

	a.buf = replay.Apply(a.buf, ev)
}

// sequentialDelete reports whether ev arrived within the pause threshold of
// the previous buffered delete. Position does not matter: backspacing
// naturally walks positions in reverse.
func (a *analyzer) sequentialDelete(ev event.LogEvent) bool {
	return ev.Timestamp.Sub(a.pendingDel.last.Timestamp) <= a.cfg.PauseThreshold
}

func (a *analyzer) flushDeletion() {
	if a.pendingDel == nil {
		return
	}
	g := a.pendingDel.group
	if g.Runes() < a.cfg.TypoMaxRunes {
		g.Kind = DeletionTypo
	} else {
		g.Kind = DeletionRevision
	}
	a.res.Deletions = append(a.res.Deletions, g)
	a.lastDeletion = &a.res.Deletions[len(a.res.Deletions)-1]
	a.lastDeletionAt = a.pendingDel.last.Timestamp
	a.pendingDel = nil
}

func (a *analyzer) flushInsertion() {
	if a.pendingIns == nil {
		return
	}
	g := a.pendingIns.g
	g.Level = classifyInsertion(g.Content, a.cfg.ParagraphCutoff)
	a.res.Insertions = append(a.res.Insertions, g)
	a.pendingIns = nil
}

func (a *analyzer) flushReplacement() {
	if a.pendingRep == nil {
		a.lastDeletion = nil
		return
	}
	if a.lastDeletion != nil {
		a.lastDeletion.Replacement = a.pendingRep.text
	}
	a.lastDeletion = nil
	a.pendingRep = nil
}

// classifyInsertion applies the level heuristic: paragraph when the
// combined content contains a line break or exceeds the cutoff, else
// sentence.
func classifyInsertion(content string, cutoff int) InsertionLevel {
	if strings.ContainsRune(content, '\n') || len([]rune(content)) > cutoff {
		return InsertionParagraph
	}
	return InsertionSentence
}
