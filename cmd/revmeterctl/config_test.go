package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRunRequestFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	payload := `{"run_id":"spin-7","input_path":"spin.raw","layout":"dat","batch_size":4096}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	req, err := loadRunRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if req.RunID != "spin-7" || req.InputPath != "spin.raw" || req.Layout != "dat" || req.BatchSize != 4096 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestLoadRunRequestIgnoresFractionalBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(`{"batch_size":10.5}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	req, err := loadRunRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if req.BatchSize != 0 {
		t.Fatalf("fractional batch size should be ignored, got %d", req.BatchSize)
	}
}

func TestLoadRunRequestMissingFile(t *testing.T) {
	if _, err := loadRunRequestFromConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected missing file error")
	}
}
