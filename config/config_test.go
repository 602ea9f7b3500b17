package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Audio.SampleRate != 16000 || cfg.Audio.FrameLength != 2048 || cfg.Audio.HopLength != 512 {
		t.Errorf("audio defaults = %+v", cfg.Audio)
	}
	if cfg.Segments.MinTurnSec != 15 || cfg.Segments.MinMergedSec != 60 ||
		cfg.Segments.TopSpeakers != 4 || cfg.Segments.PerSpeaker != 2 {
		t.Errorf("segment defaults = %+v", cfg.Segments)
	}
	if !cfg.Trim.Adaptive || cfg.Trim.RelativeDropDb != 35 {
		t.Errorf("trim defaults = %+v", cfg.Trim)
	}
	if cfg.Classify.ExpressiveCentroidVar != 5e6 || cfg.Classify.ModerateRatio != 0.4 {
		t.Errorf("classify defaults = %+v", cfg.Classify)
	}
	if cfg.Workers.Count != 4 {
		t.Errorf("workers default = %+v", cfg.Workers)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("segments:\n  min_merged_sec: 45\nworkers:\n  count: 8\nservices:\n  judge:\n    url: https://api.example\n    key: sk-test\n")
	if err := os.WriteFile(filepath.Join(dir, "vocius.yaml"), yaml, 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Segments.MinMergedSec != 45 {
		t.Errorf("min_merged_sec = %v, want override 45", cfg.Segments.MinMergedSec)
	}
	if cfg.Workers.Count != 8 {
		t.Errorf("workers = %v, want 8", cfg.Workers.Count)
	}
	if cfg.Services.Judge.URL != "https://api.example" || cfg.Services.Judge.Key != "sk-test" {
		t.Errorf("judge service = %+v", cfg.Services.Judge)
	}
	// Untouched keys keep their defaults.
	if cfg.Segments.MinTurnSec != 15 {
		t.Errorf("min_turn_sec = %v, want default 15", cfg.Segments.MinTurnSec)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vocius.yaml"), []byte("segments: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}
