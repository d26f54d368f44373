package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.NotesDir != "notes" {
		t.Errorf("expected default notes dir, got %s", cfg.NotesDir)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("expected file storage backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("expected 16000 sample rate, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.ChunkSeconds != 5 {
		t.Errorf("expected 5 second chunks, got %d", cfg.Audio.ChunkSeconds)
	}
	if cfg.Upload.MaxBytes != 500*1024*1024 {
		t.Errorf("expected 500MB upload ceiling, got %d", cfg.Upload.MaxBytes)
	}
	if cfg.Upload.ConfirmBytes != 100*1024*1024 {
		t.Errorf("expected 100MB confirm threshold, got %d", cfg.Upload.ConfirmBytes)
	}
	if cfg.Analysis.TimeoutSeconds != 45 {
		t.Errorf("expected 45s analysis timeout, got %d", cfg.Analysis.TimeoutSeconds)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
port: "9090"
notes_dir: /tmp/notes
storage:
  backend: mongo
audio:
  language: de-DE
  stt_provider: mock
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.NotesDir != "/tmp/notes" {
		t.Errorf("expected /tmp/notes, got %s", cfg.NotesDir)
	}
	if cfg.Storage.Backend != "mongo" {
		t.Errorf("expected mongo backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("expected default mongo URI, got %s", cfg.Storage.MongoURI)
	}
	if cfg.Audio.Language != "de-DE" {
		t.Errorf("expected de-DE, got %s", cfg.Audio.Language)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("STT_PROVIDER", "mock")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("expected env override 7070, got %s", cfg.Port)
	}
	if cfg.Audio.STTProvider != "mock" {
		t.Errorf("expected mock stt provider, got %s", cfg.Audio.STTProvider)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Backend: "postgres"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown storage backend")
	}
}

func TestValidateRejectsInvertedUploadThresholds(t *testing.T) {
	cfg := &Config{Upload: UploadConfig{MaxBytes: 10, ConfirmBytes: 20}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when confirm threshold exceeds the ceiling")
	}
}
