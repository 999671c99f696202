package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nateprice/draftlog/internal/index"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions in the library, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := index.Load(cfg.IndexPath())
		if err != nil {
			return err
		}

		entries := idx.Sorted()
		if len(entries) == 0 {
			fmt.Println("No recorded sessions.")
			return nil
		}

		fmt.Printf("%-10s  %-12s  %-8s  %6s  %6s  %5s  %s\n",
			"DATE", "AUTHOR", "DURATION", "EVENTS", "WORDS", "WPM", "FILE")
		for _, e := range entries {
			dur := (time.Duration(e.DurationMS) * time.Millisecond).Round(time.Second)
			words, wpm := "-", "-"
			if e.Words > 0 {
				words = fmt.Sprintf("%d", e.Words)
				wpm = fmt.Sprintf("%.0f", e.WPM)
			}
			name := e.Path
			if e.Archived {
				name += " (archived)"
			}
			fmt.Printf("%-10s  %-12s  %-8s  %6d  %6s  %5s  %s\n",
				e.Date, truncate(e.Author, 12), dur, e.Events, words, wpm, name)
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

func init() {
	rootCmd.AddCommand(listCmd)
}
