// Package config loads draftlog configuration from TOML files: a global
// file in the XDG config directory, optionally overridden by a
// project-local .draftlog.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nateprice/draftlog/internal/segment"
)

// Config holds all draftlog settings.
type Config struct {
	// LibraryPath is where finished session logs and the index live.
	LibraryPath string `toml:"library_path"`
	// ArchivePath is where compressed session logs go.
	ArchivePath string `toml:"archive_path"`
	// Author is the default author name stamped on new sessions.
	Author string `toml:"author"`
	// LogLevel is the zerolog level: debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Analysis AnalysisConfig `toml:"analysis"`
}

// AnalysisConfig exposes every segmentation threshold so none of them is a
// literal buried in logic.
type AnalysisConfig struct {
	PauseThresholdMS    int64 `toml:"pause_threshold_ms"`
	TypoMaxChars        int   `toml:"typo_max_chars"`
	ReplacementWindowMS int64 `toml:"replacement_window_ms"`
	ParagraphCutoff     int   `toml:"paragraph_cutoff"`
	BucketCount         int   `toml:"bucket_count"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	seg := segment.DefaultConfig()
	return Config{
		LibraryPath: "~/.local/share/draftlog/sessions",
		ArchivePath: "~/.local/share/draftlog/archive",
		LogLevel:    "info",
		Analysis: AnalysisConfig{
			PauseThresholdMS:    seg.PauseThreshold.Milliseconds(),
			TypoMaxChars:        seg.TypoMaxRunes,
			ReplacementWindowMS: seg.ReplacementWindow.Milliseconds(),
			ParagraphCutoff:     seg.ParagraphCutoff,
			BucketCount:         seg.BucketCount,
		},
	}
}

// SegmentConfig converts the analysis settings into the pipeline's config.
func (c Config) SegmentConfig() segment.Config {
	seg := segment.DefaultConfig()
	a := c.Analysis
	if a.PauseThresholdMS > 0 {
		seg.PauseThreshold = time.Duration(a.PauseThresholdMS) * time.Millisecond
	}
	if a.TypoMaxChars > 0 {
		seg.TypoMaxRunes = a.TypoMaxChars
	}
	if a.ReplacementWindowMS > 0 {
		seg.ReplacementWindow = time.Duration(a.ReplacementWindowMS) * time.Millisecond
	}
	if a.ParagraphCutoff > 0 {
		seg.ParagraphCutoff = a.ParagraphCutoff
	}
	if a.BucketCount > 0 {
		seg.BucketCount = a.BucketCount
	}
	return seg
}

// PauseThreshold returns the configured pause threshold as a duration.
func (c Config) PauseThreshold() time.Duration {
	if c.Analysis.PauseThresholdMS > 0 {
		return time.Duration(c.Analysis.PauseThresholdMS) * time.Millisecond
	}
	return segment.DefaultConfig().PauseThreshold
}

// Load reads the global config, then merges a project-local .draftlog.toml
// from the current working directory over it. Absent files fall back to
// defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range globalPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, &ParseError{Path: p, Err: err}
			}
			break
		}
	}

	if _, err := os.Stat(".draftlog.toml"); err == nil {
		if _, err := toml.DecodeFile(".draftlog.toml", &cfg); err != nil {
			return cfg, &ParseError{Path: ".draftlog.toml", Err: err}
		}
	}

	cfg.LibraryPath = expandHome(cfg.LibraryPath)
	cfg.ArchivePath = expandHome(cfg.ArchivePath)
	return cfg, nil
}

func globalPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "draftlog", "config.toml"))
	}
	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "draftlog", "config.toml"))
	}
	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// IndexPath returns the library's session index file.
func (c Config) IndexPath() string {
	return filepath.Join(c.LibraryPath, "index.json")
}

// AutosavePath returns the crash-recovery snapshot location.
func (c Config) AutosavePath() string {
	return filepath.Join(c.LibraryPath, "autosave.json")
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse config file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err is a config ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
