package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"meetnote/internal/audio"
)

type Config struct {
	Audio    AudioConfig   `json:"audio"`
	Whisper  WhisperConfig `json:"whisper"`
	Gemini   GeminiConfig  `json:"gemini"`
	DataDir  string        `json:"data_dir"`
	LogLevel string        `json:"log_level"`
}

type AudioConfig struct {
	SampleRate int `json:"sample_rate"`
	Channels   int `json:"channels"`
	DeviceID   int `json:"device_id"` // -1 selects the host default
}

type WhisperConfig struct {
	BinaryPath string `json:"binary_path"` // whisper.cpp CLI
	ModelPath  string `json:"model_path"`
	Language   string `json:"language"` // "auto", "en", ...
	Threads    int    `json:"threads"`  // 0 = whisper default
}

type GeminiConfig struct {
	Model string `json:"model"`
	// APIKey comes from the GEMINI_API_KEY environment variable and is
	// never written back to disk.
	APIKey string `json:"-"`
}

// CaptureConfig translates the audio settings into a capture session
// configuration.
func (c *Config) CaptureConfig() audio.Config {
	return audio.Config{
		SampleRate: c.Audio.SampleRate,
		Channels:   c.Audio.Channels,
		DeviceID:   c.Audio.DeviceID,
	}
}

// RecordingsDir returns the directory WAV files are written to.
func (c *Config) RecordingsDir() string {
	return filepath.Join(c.DataDir, "recordings")
}

// TranscriptsDir returns the directory transcripts are written to.
func (c *Config) TranscriptsDir() string {
	return filepath.Join(c.DataDir, "transcripts")
}

// SummariesDir returns the directory summaries are written to.
func (c *Config) SummariesDir() string {
	return filepath.Join(c.DataDir, "summaries")
}

// EnsureDirs creates the recordings, transcripts and summaries
// directories on demand.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.RecordingsDir(), c.TranscriptsDir(), c.SummariesDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	cfg := &Config{
		Audio: AudioConfig{
			SampleRate: 44100,
			Channels:   2,
			DeviceID:   audio.DefaultDevice,
		},
		Whisper: WhisperConfig{
			BinaryPath: "whisper-cli",
			ModelPath:  filepath.Join(dataPath(), "models", "ggml-base.bin"),
			Language:   "auto",
			Threads:    0,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		DataDir:  dataPath(),
		LogLevel: "info",
	}

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "meetnote", "config.json")
}

// dataPath returns the platform-specific data directory path
func dataPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.local/share"
		}
	}

	return filepath.Join(base, "meetnote")
}
