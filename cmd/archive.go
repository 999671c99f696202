package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nateprice/draftlog/internal/archive"
	"github.com/nateprice/draftlog/internal/index"
	"github.com/nateprice/draftlog/internal/store"
)

var archiveRemove bool

var archiveCmd = &cobra.Command{
	Use:   "archive <session.json>",
	Short: "Compress a session log into the archive directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcPath := args[0]

		// Refuse to archive something that is not a valid session log.
		sess, err := store.Load(srcPath)
		if err != nil {
			return err
		}

		destPath, err := archive.Compress(srcPath, cfg.ArchivePath)
		if err != nil {
			return err
		}

		if archiveRemove {
			// Remove the original only after the archive round-trips
			// byte for byte.
			if err := verifyArchive(srcPath, destPath); err != nil {
				return fmt.Errorf("archive verification failed, original kept: %w", err)
			}
			if err := os.Remove(srcPath); err != nil {
				return fmt.Errorf("remove original: %w", err)
			}
		}

		if err := markArchived(sess.ID, destPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: index update failed: %v\n", err)
		}

		fmt.Printf("Archived: %s\n", destPath)
		return nil
	},
}

func verifyArchive(srcPath, destPath string) error {
	original, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	tmpPath, cleanup, err := archive.Decompress(destPath)
	if err != nil {
		return err
	}
	defer cleanup()
	restored, err := os.ReadFile(tmpPath)
	if err != nil {
		return err
	}
	if !bytes.Equal(original, restored) {
		return fmt.Errorf("decompressed content differs from original")
	}
	return nil
}

func markArchived(sessionID, destPath string) error {
	idx, err := index.Load(cfg.IndexPath())
	if err != nil {
		return err
	}
	e, ok := idx.Entries[sessionID]
	if !ok {
		return nil
	}
	e.Archived = true
	if archiveRemove {
		e.Path = filepath.Base(destPath)
	}
	idx.Add(e)
	return idx.Save()
}

func init() {
	archiveCmd.Flags().BoolVar(&archiveRemove, "rm", false, "Remove the original after a verified round-trip")
	rootCmd.AddCommand(archiveCmd)
}
