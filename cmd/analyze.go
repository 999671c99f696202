package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nateprice/draftlog/internal/index"
	"github.com/nateprice/draftlog/internal/report"
	"github.com/nateprice/draftlog/internal/segment"
)

var (
	analyzeFormat string
	analyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <session.json[.zst]>",
	Short: "Segment a session log into behavioral groups and render a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession(args[0])
		if err != nil {
			return err
		}

		res, err := segment.AnalyzeSession(cmd.Context(), sess, cfg.SegmentConfig(), log)
		if err != nil {
			// The raw log stays valid and exportable even when derived
			// statistics cannot be computed.
			return fmt.Errorf("%w (the raw log at %s remains usable)", err, args[0])
		}

		renderer, _, err := report.ForFormat(analyzeFormat)
		if err != nil {
			return err
		}
		data, err := renderer.Render(report.New(sess, res))
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		if analyzeOutput != "" {
			if err := os.WriteFile(analyzeOutput, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("Report written: %s\n", analyzeOutput)
		} else {
			fmt.Print(string(data))
		}

		if err := recordAnalysis(sess.ID, res); err != nil {
			fmt.Fprintf(os.Stderr, "warning: index update failed: %v\n", err)
		}
		return nil
	},
}

// recordAnalysis backfills word count and WPM onto the library index entry,
// when the session is in the library.
func recordAnalysis(sessionID string, res segment.Result) error {
	idx, err := index.Load(cfg.IndexPath())
	if err != nil {
		return err
	}
	e, ok := idx.Entries[sessionID]
	if !ok {
		return nil
	}
	e.Words = res.Stats.WordCount
	e.WPM = res.Stats.WordsPerMinute
	idx.Add(e)
	return idx.Save()
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "markdown", "Report format: markdown or json")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}
