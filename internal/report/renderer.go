package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JSONRenderer renders a Report as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(rep *Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// MarkdownRenderer renders a Report as human-readable Markdown.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(rep *Report) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Writing Session — %s\n\n", rep.Session.StartTime.Format("2006-01-02 15:04"))

	sb.WriteString("## Summary\n\n")
	if rep.Session.Author != "" {
		fmt.Fprintf(&sb, "- Author: %s\n", rep.Session.Author)
	}
	fmt.Fprintf(&sb, "- Duration: %s\n", rep.Session.Duration)
	fmt.Fprintf(&sb, "- Events: %d\n", rep.Session.Events)

	st := rep.Result.Stats
	fmt.Fprintf(&sb, "- Words: %d\n", st.WordCount)
	fmt.Fprintf(&sb, "- Words per minute: %.1f\n", st.WordsPerMinute)
	fmt.Fprintf(&sb, "- Typos corrected: %d\n", st.TypoCount)
	fmt.Fprintf(&sb, "- Revisions: %d\n", st.RevisionCount)
	fmt.Fprintf(&sb, "- Non-linear insertions: %d\n", st.InsertionCount)
	fmt.Fprintf(&sb, "- Pauses: %d (%s total)\n\n",
		st.PauseCount, (time.Duration(st.PauseTime) * time.Millisecond).Round(time.Second))

	sb.WriteString("## Pauses\n\n")
	if len(rep.Result.Pauses) == 0 {
		sb.WriteString("_No pauses._\n")
	} else {
		sb.WriteString("| At | Duration | Location | Context |\n")
		sb.WriteString("|----|----------|----------|--------|\n")
		for _, p := range rep.Result.Pauses {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				formatOffset(p.Start),
				(time.Duration(p.Duration) * time.Millisecond).Round(100*time.Millisecond),
				p.Location,
				markdownCell(p.Context),
			)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Deletions\n\n")
	if len(rep.Result.Deletions) == 0 {
		sb.WriteString("_No deletions._\n")
	} else {
		sb.WriteString("| At | Kind | Deleted | Replacement |\n")
		sb.WriteString("|----|------|---------|-------------|\n")
		for _, d := range rep.Result.Deletions {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				formatOffset(d.Start),
				d.Kind,
				markdownCell(d.Content),
				markdownCell(d.Replacement),
			)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Insertions\n\n")
	if len(rep.Result.Insertions) == 0 {
		sb.WriteString("_No non-linear insertions._\n")
	} else {
		sb.WriteString("| At | Level | Position | Inserted |\n")
		sb.WriteString("|----|-------|----------|----------|\n")
		for _, g := range rep.Result.Insertions {
			fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n",
				formatOffset(g.Start),
				g.Level,
				g.Position,
				markdownCell(g.Content),
			)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Writing flow\n\n")
	sb.WriteString(sparkline(st.NetChars))
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// formatOffset renders a millisecond offset as m:ss.
func formatOffset(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// markdownCell makes arbitrary captured text safe inside a table cell.
func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "\n", "⏎")
	s = strings.ReplaceAll(s, "|", "\\|")
	const max = 40
	if r := []rune(s); len(r) > max {
		s = string(r[:max]) + "…"
	}
	return s
}

// sparkline draws the net-character series as a unicode block chart.
func sparkline(series []int) string {
	if len(series) == 0 {
		return ""
	}
	blocks := []rune("▁▂▃▄▅▆▇█")
	max := 0
	for _, v := range series {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}
	var sb strings.Builder
	for _, v := range series {
		if v < 0 {
			v = 0
		}
		i := v * (len(blocks) - 1) / max
		sb.WriteRune(blocks[i])
	}
	sb.WriteString("\n")
	return sb.String()
}

// ForFormat returns the renderer and file extension for a format name.
func ForFormat(format string) (Renderer, string, error) {
	switch format {
	case "json":
		return &JSONRenderer{}, ".json", nil
	case "markdown", "md":
		return &MarkdownRenderer{}, ".md", nil
	}
	return nil, "", fmt.Errorf("unknown report format %q (want markdown or json)", format)
}
