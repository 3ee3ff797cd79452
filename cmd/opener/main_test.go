package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotcommander/opener/internal/analysis"
	"github.com/dotcommander/opener/internal/search"
)

const sceneFile = `{
  "title": "Harbour Lights",
  "scenes": [
    {"id": "s1", "chapterId": "ch1", "startOffset": 0, "endOffset": 45, "text": "The killer is Sarah. Rain hammered the docks.", "wordCount": 600, "dialogueRatio": 0.3},
    {"id": "s2", "chapterId": "ch2", "startOffset": 45, "endOffset": 85, "text": "\"Run!\" Sarah shouted. The ship exploded.", "wordCount": 700, "dialogueRatio": 0.4}
  ]
}`

func setup(t *testing.T) (dir, scenes string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("OPENER_CONFIG", filepath.Join(dir, "missing.yaml"))
	scenes = filepath.Join(dir, "scenes.json")
	if err := os.WriteFile(scenes, []byte(sceneFile), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, scenes
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, &stdout, &stderr); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "Usage: opener") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if code := run(context.Background(), []string{"bogus"}, &stdout, &stderr); code != 2 {
		t.Errorf("unknown command exit code = %d, want 2", code)
	}
}

func TestAnalyzeSavesReport(t *testing.T) {
	dir, scenes := setup(t)
	out := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	args := []string{"analyze", "-out", out, "-naming", "descriptive", "-log-level", "error", scenes}
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	matches, err := filepath.Glob(filepath.Join(out, "reports", "*harbour-lights*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("saved reports = %v, err = %v", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	var report analysis.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if report.Title != "Harbour Lights" || report.SceneCount != 2 {
		t.Errorf("report = %q with %d scenes", report.Title, report.SceneCount)
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"reports", "-out", out}, &stdout, &stderr); code != 0 {
		t.Fatalf("reports exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), filepath.Base(matches[0])) {
		t.Errorf("reports output %q missing %s", stdout.String(), filepath.Base(matches[0]))
	}
}

func TestAnalyzeStdout(t *testing.T) {
	dir, scenes := setup(t)

	var stdout, stderr bytes.Buffer
	args := []string{"analyze", "-out", dir, "-stdout", "-log-format", "json", scenes}
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	var report analysis.Report
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("stdout is not a report: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "reports")); !os.IsNotExist(err) {
		t.Errorf("reports dir created with -stdout")
	}
}

func TestAnalyzeMalformedInput(t *testing.T) {
	dir, _ := setup(t)
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"id": "s1", "startOffset": 10, "endOffset": 2}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"analyze", "-out", dir, bad}, &stdout, &stderr); code != 2 {
		t.Errorf("exit code = %d, want 2; stderr = %s", code, stderr.String())
	}
}

func TestAnalyzeRejectsBadConfig(t *testing.T) {
	_, scenes := setup(t)
	t.Setenv("OPENER_DECISION_REJECT_ABOVE", "0.01")

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"analyze", scenes}, &stdout, &stderr); code != 2 {
		t.Errorf("exit code = %d, want 2; stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "Error:") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestSearchCommand(t *testing.T) {
	dir, scenes := setup(t)

	var stdout, stderr bytes.Buffer
	args := []string{"search", "-out", dir, "-json", scenes, `"the ship"`}
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	var hits []search.Hit
	if err := json.Unmarshal(stdout.Bytes(), &hits); err != nil {
		t.Fatalf("stdout is not a hit list: %v", err)
	}
	if len(hits) != 1 || hits[0].SceneID != "s2" {
		t.Errorf("hits = %+v, want one hit in s2", hits)
	}

	stdout.Reset()
	args = []string{"search", "-out", dir, "-character", "Sarah", scenes}
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if lines := strings.Count(stdout.String(), "\n"); lines != 2 {
		t.Errorf("character search printed %d lines, want 2:\n%s", lines, stdout.String())
	}

	if code := run(context.Background(), []string{"search", "-out", dir, scenes}, &stdout, &stderr); code != 2 {
		t.Errorf("search without query exit code = %d, want 2", code)
	}
}
