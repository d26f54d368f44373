package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all server configuration. Values come from an optional YAML
// file, overridden by environment variables (a .env file is honored when
// present).
type Config struct {
	Port       string         `yaml:"port"`
	NotesDir   string         `yaml:"notes_dir"`
	UploadsDir string         `yaml:"uploads_dir"`
	Storage    StorageConfig  `yaml:"storage"`
	Audio      AudioConfig    `yaml:"audio"`
	Upload     UploadConfig   `yaml:"upload"`
	Analysis   AnalysisConfig `yaml:"analysis"`
	Auth       AuthConfig     `yaml:"auth"`
}

// StorageConfig selects and configures the note storage backend.
type StorageConfig struct {
	// Backend is "file" or "mongo".
	Backend       string `yaml:"backend"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

// AudioConfig configures capture and transcription.
type AudioConfig struct {
	SampleRate   int    `yaml:"sample_rate"`
	ChunkSeconds int    `yaml:"chunk_seconds"`
	Language     string `yaml:"language"`
	// STTProvider is "google" or "mock".
	STTProvider string `yaml:"stt_provider"`
}

// UploadConfig bounds file uploads.
type UploadConfig struct {
	MaxBytes     int64 `yaml:"max_bytes"`
	ConfirmBytes int64 `yaml:"confirm_bytes"`
}

// AnalysisConfig configures the AI analysis providers.
type AnalysisConfig struct {
	DefaultProvider string `yaml:"default_provider"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	GeminiModel     string `yaml:"gemini_model"`
	GroqAPIKey      string `yaml:"groq_api_key"`
	GroqModel       string `yaml:"groq_model"`
}

// AuthConfig enables optional bearer-token protection of the event channel.
// Auth is off when Secret is empty.
type AuthConfig struct {
	Secret string `yaml:"secret"`
}

// Load reads configuration from the optional YAML file at path, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Port, "PORT")
	setString(&c.NotesDir, "NOTES_DIR")
	setString(&c.UploadsDir, "UPLOADS_DIR")
	setString(&c.Storage.Backend, "STORAGE_BACKEND")
	setString(&c.Storage.MongoURI, "MONGODB_URI")
	setString(&c.Storage.MongoDatabase, "MONGODB_DATABASE")
	setString(&c.Audio.Language, "AUDIO_LANGUAGE")
	setString(&c.Audio.STTProvider, "STT_PROVIDER")
	setInt(&c.Audio.SampleRate, "AUDIO_SAMPLE_RATE")
	setInt(&c.Audio.ChunkSeconds, "AUDIO_CHUNK_SECONDS")
	setString(&c.Analysis.DefaultProvider, "ANALYSIS_PROVIDER")
	setString(&c.Analysis.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.Analysis.GeminiModel, "GEMINI_MODEL")
	setString(&c.Analysis.GroqAPIKey, "GROQ_API_KEY")
	setString(&c.Analysis.GroqModel, "GROQ_MODEL")
	setString(&c.Auth.Secret, "AUTH_SECRET")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate applies defaults and rejects inconsistent settings.
func (c *Config) Validate() error {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.NotesDir == "" {
		c.NotesDir = "notes"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "uploads"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.Backend != "file" && c.Storage.Backend != "mongo" {
		return fmt.Errorf("storage.backend must be file or mongo, got %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "mongo" && c.Storage.MongoURI == "" {
		c.Storage.MongoURI = "mongodb://localhost:27017"
	}
	if c.Storage.Backend == "mongo" && c.Storage.MongoDatabase == "" {
		c.Storage.MongoDatabase = "meeting_notes"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.ChunkSeconds == 0 {
		c.Audio.ChunkSeconds = 5
	}
	if c.Audio.Language == "" {
		c.Audio.Language = "en-US"
	}
	if c.Audio.STTProvider == "" {
		c.Audio.STTProvider = "google"
	}
	if c.Audio.STTProvider != "google" && c.Audio.STTProvider != "mock" {
		return fmt.Errorf("audio.stt_provider must be google or mock, got %q", c.Audio.STTProvider)
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = 500 * 1024 * 1024
	}
	if c.Upload.ConfirmBytes == 0 {
		c.Upload.ConfirmBytes = 100 * 1024 * 1024
	}
	if c.Upload.ConfirmBytes > c.Upload.MaxBytes {
		return fmt.Errorf("upload.confirm_bytes must not exceed upload.max_bytes")
	}
	if c.Analysis.TimeoutSeconds == 0 {
		c.Analysis.TimeoutSeconds = 45
	}
	if c.Analysis.DefaultProvider == "" {
		c.Analysis.DefaultProvider = "groq"
	}
	if c.Analysis.GeminiModel == "" {
		c.Analysis.GeminiModel = "gemini-2.0-flash"
	}
	if c.Analysis.GroqModel == "" {
		c.Analysis.GroqModel = "llama-3.3-70b-versatile"
	}
	return nil
}
