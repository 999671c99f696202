package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/nateprice/draftlog/internal/archive"
	"github.com/nateprice/draftlog/internal/event"
	"github.com/nateprice/draftlog/internal/replay"
	"github.com/nateprice/draftlog/internal/store"
	"github.com/nateprice/draftlog/internal/tui"
)

var replayAt time.Duration

var replayCmd = &cobra.Command{
	Use:   "replay <session.json[.zst]>",
	Short: "Replay a recorded session interactively, or print the text at an offset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession(args[0])
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("at") {
			fmt.Println(replay.Reconstruct(sess.Events, replayAt.Milliseconds()))
			return nil
		}

		if !term.IsTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("stdout is not a terminal; use --at to print the text at an offset")
		}
		return tui.Run(sess, args[0])
	},
}

// loadSession reads a session log, transparently decompressing archived
// logs.
func loadSession(path string) (*event.WritingSession, error) {
	if archive.IsArchive(path) {
		tmpPath, cleanup, err := archive.Decompress(path)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		path = tmpPath
	}
	return store.Load(path)
}

func init() {
	replayCmd.Flags().DurationVar(&replayAt, "at", 0, "Print the reconstructed text at this elapsed offset (e.g. 1m30s) and exit")
	rootCmd.AddCommand(replayCmd)
}
