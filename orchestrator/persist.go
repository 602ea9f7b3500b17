package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Manifest is the run.json record written at the end of every run, success
// or not, so a GUI or later inspection can reconstruct what happened.
type Manifest struct {
	Program     string  `json:"program"`
	Version     string  `json:"version"`
	Status      string  `json:"status"`
	Args        Options `json:"args"`
	StartedAt   string  `json:"started_at"`
	FinishedAt  string  `json:"finished_at"`
	ElapsedSec  float64 `json:"elapsed_sec"`
	ErrorDetail string  `json:"error,omitempty"`
}

func mkSessionDir(outputsRoot, explicit string) (string, string, error) {
	ts := time.Now().Format("20060102-150405")
	sid := "session_" + ts
	dir := explicit
	if dir == "" {
		dir = filepath.Join(outputsRoot, sid)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	return sid, dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}
