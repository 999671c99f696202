package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nateprice/draftlog/internal/event"
	"github.com/nateprice/draftlog/internal/index"
	"github.com/nateprice/draftlog/internal/replay"
	"github.com/nateprice/draftlog/internal/store"
	"github.com/nateprice/draftlog/internal/watch"
)

var (
	recordAuthor string
	recordResume bool
)

var recordCmd = &cobra.Command{
	Use:   "record <file>",
	Short: "Record a writing session by watching a text file until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		author := recordAuthor
		if author == "" {
			author = cfg.Author
		}

		now := time.Now()
		builder := event.NewBuilder(author, now)
		builder.PauseThreshold = cfg.PauseThreshold()

		recorder := &watch.Recorder{
			Path:         path,
			Builder:      builder,
			Author:       author,
			AutosavePath: cfg.AutosavePath(),
			Log:          log,
		}

		if recordResume {
			snap, err := store.LoadAutosave(cfg.AutosavePath(), now)
			switch {
			case err == nil:
				builder = event.ResumeBuilder(snap.Author, snap.StartTime, snap.Events)
				builder.PauseThreshold = cfg.PauseThreshold()
				recorder.Builder = builder
				recorder.Resume(snap.Text)
				fmt.Printf("Resumed session started %s (%d events).\n",
					snap.StartTime.Format(time.RFC3339), len(snap.Events))
			case errors.Is(err, store.ErrStaleAutosave):
				fmt.Fprintln(os.Stderr, "warning: autosave is older than 48h, starting fresh")
			case errors.Is(err, store.ErrNoSession):
				fmt.Fprintln(os.Stderr, "warning: no autosave found, starting fresh")
			default:
				return err
			}
		}

		if !recordResume || recorder.Text() == "" {
			if err := recorder.Init(now); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Recording %s — press Ctrl-C to finish.\n", path)
		if err := recorder.Run(ctx); err != nil {
			return err
		}

		end := time.Now()
		sess := builder.Finish(recorder.Text(), end)

		// The full event sequence replayed from empty must reproduce the
		// final text; a mismatch means capture went wrong.
		if got := replay.Reconstruct(sess.Events, sess.Duration()); got != sess.FinalText {
			log.Warn().Str("session", sess.ID).Msg("replay of captured events does not reproduce the final text")
		}

		filename := fmt.Sprintf("%s-%s.json", end.Format("2006-01-02"), sess.ID[:8])
		outputPath := filepath.Join(cfg.LibraryPath, filename)
		if err := store.Save(outputPath, sess); err != nil {
			return err
		}

		if err := updateIndex(sess, filename); err != nil {
			fmt.Fprintf(os.Stderr, "warning: index update failed: %v\n", err)
		}
		if err := store.DeleteAutosave(cfg.AutosavePath()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		fmt.Printf("Session saved: %s (%d events, %s active)\n",
			outputPath, len(sess.Events),
			(time.Duration(sess.TotalActiveTime) * time.Millisecond).Round(time.Second))
		return nil
	},
}

func updateIndex(sess *event.WritingSession, filename string) error {
	idx, err := index.Load(cfg.IndexPath())
	if err != nil {
		return err
	}
	idx.Add(index.Entry{
		SessionID:  sess.ID,
		Path:       filename,
		Author:     sess.Author,
		Date:       sess.StartTime.Format("2006-01-02"),
		CreatedAt:  sess.StartTime,
		DurationMS: sess.Duration(),
		Events:     len(sess.Events),
	})
	return idx.Save()
}

func init() {
	recordCmd.Flags().StringVar(&recordAuthor, "author", "", "Author name for the session (overrides config)")
	recordCmd.Flags().BoolVar(&recordResume, "resume", false, "Resume from the autosave snapshot if one exists")
	rootCmd.AddCommand(recordCmd)
}
