package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nateprice/draftlog/internal/archive"
	"github.com/nateprice/draftlog/internal/report"
)

func TestAnalyzeWritesMarkdownReport(t *testing.T) {
	library := isolateConfig(t)
	path := writeFixtureSession(t, library)
	outPath := filepath.Join(t.TempDir(), "report.md")

	_ = captureStdout(t, func() {
		if _, err := executeCommand(rootCmd, "analyze", path, "-o", outPath); err != nil {
			t.Errorf("analyze: %v", err)
		}
	})

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	md := string(data)
	for _, want := range []string{
		"## Summary",
		"- Words: 2",
		"## Deletions",
		"| revision | cat | dog |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q\n---\n%s", want, md)
		}
	}
}

func TestAnalyzeJSONFormat(t *testing.T) {
	library := isolateConfig(t)
	path := writeFixtureSession(t, library)
	outPath := filepath.Join(t.TempDir(), "report.json")

	_ = captureStdout(t, func() {
		if _, err := executeCommand(rootCmd, "analyze", path, "--format", "json", "-o", outPath); err != nil {
			t.Errorf("analyze: %v", err)
		}
	})

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if rep.Result.Stats.WordCount != 2 {
		t.Errorf("word count = %d, want 2", rep.Result.Stats.WordCount)
	}
	if rep.Result.Stats.RevisionCount != 1 {
		t.Errorf("revision count = %d, want 1", rep.Result.Stats.RevisionCount)
	}
}

func TestAnalyzeArchivedLog(t *testing.T) {
	library := isolateConfig(t)
	path := writeFixtureSession(t, library)
	zst, err := archive.Compress(path, library)
	if err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(t.TempDir(), "report.md")

	_ = captureStdout(t, func() {
		if _, err := executeCommand(rootCmd, "analyze", zst, "-o", outPath); err != nil {
			t.Errorf("analyze archived log: %v", err)
		}
	})

	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("no report written for archived log: %v", err)
	}
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	library := isolateConfig(t)
	path := writeFixtureSession(t, library)

	_, err := executeCommand(rootCmd, "analyze", path, "--format", "markdwon")
	if err == nil {
		t.Fatal("expected an error for an unknown format, got nil")
	}
	if !strings.Contains(err.Error(), "unknown report format") {
		t.Errorf("err = %v, want an unknown-report-format message", err)
	}
}

func TestAnalyzeRejectsInvalidLog(t *testing.T) {
	isolateConfig(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"events":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := executeCommand(rootCmd, "analyze", bad)
	if err == nil {
		t.Fatal("expected an error for an invalid log, got nil")
	}
	if !strings.Contains(err.Error(), "invalid session log") {
		t.Errorf("err = %v, want an invalid-session-log message", err)
	}
}
