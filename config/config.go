// Package config loads the assistant settings from a YAML file, a .env file
// and the environment, in increasing order of precedence. Command line flags
// are applied on top by main.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	EnvWakeWord = "JARVIS_WAKE_WORD"
	EnvAPIKey   = "GEMINI_API_KEY"
	EnvAIHost   = "JARVIS_AI_HOST"
	EnvLogLevel = "JARVIS_LOG_LEVEL"
)

// WhisperSampleRate is the capture rate the recognizer needs. There is no
// resampling between the microphone and whisper.
const WhisperSampleRate = 16000

type Config struct {
	WakeWord        string        `yaml:"wake_word"`
	InactivityLimit time.Duration `yaml:"inactivity_limit"`
	LoopPause       time.Duration `yaml:"loop_pause"`
	LogLevel        string        `yaml:"log_level"`

	Whisper  WhisperConfig  `yaml:"whisper"`
	Capture  CaptureConfig  `yaml:"capture"`
	Speech   SpeechConfig   `yaml:"speech"`
	AI       AIConfig       `yaml:"ai"`
	Launcher LauncherConfig `yaml:"launcher"`
}

type WhisperConfig struct {
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	Threads  uint   `yaml:"threads"`
}

type CaptureConfig struct {
	DeviceSampleRate int           `yaml:"device_sample_rate"`
	WaitTimeout      time.Duration `yaml:"wait_timeout"`
	PhraseLimit      time.Duration `yaml:"phrase_limit"`
	QuietTime        time.Duration `yaml:"quiet_time"`

	// ArchiveDir keeps a WAV copy of every captured phrase when set.
	ArchiveDir string `yaml:"archive_dir"`
}

type SpeechConfig struct {
	Command  string `yaml:"command"`
	Voice    string `yaml:"voice"`
	Rate     int    `yaml:"rate"`
	Disabled bool   `yaml:"disabled"`
}

type AIConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Host    string        `yaml:"host"`
	Timeout time.Duration `yaml:"timeout"`
	Persona string        `yaml:"persona"`
}

type LauncherConfig struct {
	Application []string `yaml:"application"`
	SearchURL   string   `yaml:"search_url"`
}

func Default() *Config {
	return &Config{
		WakeWord:        "jarvis",
		InactivityLimit: 60 * time.Second,
		LoopPause:       100 * time.Millisecond,
		LogLevel:        "info",
		Whisper: WhisperConfig{
			Language: "en",
		},
		Capture: CaptureConfig{
			DeviceSampleRate: WhisperSampleRate,
			WaitTimeout:      5 * time.Second,
			PhraseLimit:      15 * time.Second,
			QuietTime:        200 * time.Millisecond,
		},
		Speech: SpeechConfig{
			Command: "espeak-ng",
		},
		AI: AIConfig{
			Model:   "gemini-1.5-flash",
			Timeout: 30 * time.Second,
		},
		Launcher: LauncherConfig{
			SearchURL: "https://www.google.com/search?q=",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	return cfg, nil
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	if v, ok := lookup(EnvWakeWord); ok && v != "" {
		c.WakeWord = v
	}

	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.AI.APIKey = v
	}

	if v, ok := lookup(EnvAIHost); ok && v != "" {
		c.AI.Host = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.WakeWord) == "" {
		errs = append(errs, errors.New("wake_word is empty"))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"inactivity_limit", c.InactivityLimit},
		{"loop_pause", c.LoopPause},
		{"capture.wait_timeout", c.Capture.WaitTimeout},
		{"capture.phrase_limit", c.Capture.PhraseLimit},
		{"capture.quiet_time", c.Capture.QuietTime},
		{"ai.timeout", c.AI.Timeout},
	}

	for _, d := range durations {
		if d.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.name, d.value))
		}
	}

	if c.Capture.DeviceSampleRate != WhisperSampleRate {
		errs = append(errs, fmt.Errorf("capture.device_sample_rate must be %d, got %d", WhisperSampleRate, c.Capture.DeviceSampleRate))
	}

	if c.Speech.Rate < 0 {
		errs = append(errs, fmt.Errorf("speech.rate must not be negative, got %d", c.Speech.Rate))
	}

	return errors.Join(errs...)
}
