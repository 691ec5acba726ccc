package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"jarvis-assistant/clients/ai_bot"
	"jarvis-assistant/config"
)

func noEnv(string) (string, bool) {
	return "", false
}

func TestLoadConfig(t *testing.T) {
	t.Run("flags beat the environment which beats the file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		_ = afero.WriteFile(fs, "jarvis.yaml", []byte("wake_word: friday\nlog_level: warn\n"), 0o644)
		_ = afero.WriteFile(fs, ".env", []byte("JARVIS_LOG_LEVEL=error\nGEMINI_API_KEY=from-file\n"), 0o644)

		env := func(key string) (string, bool) {
			if key == config.EnvLogLevel {
				return "debug", true
			}

			return "", false
		}

		cfg, err := loadConfig(fs, &options{
			configPath: "jarvis.yaml",
			envFile:    ".env",
			model:      "ggml-tiny.bin",
			wakeWord:   "computer",
			noSpeech:   true,
		}, env)
		if err != nil {
			t.Fatalf("error with loadConfig: %v", err)
		}

		if cfg.WakeWord != "computer" {
			t.Errorf("expected computer, got %s", cfg.WakeWord)
		}

		if cfg.LogLevel != "debug" {
			t.Errorf("expected debug, got %s", cfg.LogLevel)
		}

		if cfg.AI.APIKey != "from-file" {
			t.Errorf("expected dotenv api key, got %q", cfg.AI.APIKey)
		}

		if cfg.Whisper.Model != "ggml-tiny.bin" || !cfg.Speech.Disabled {
			t.Errorf("expected flags to apply, got %+v %+v", cfg.Whisper, cfg.Speech)
		}
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		_ = afero.WriteFile(fs, "jarvis.yaml", []byte("inactivity_limit: 0s\n"), 0o644)

		_, err := loadConfig(fs, &options{configPath: "jarvis.yaml"}, noEnv)
		if err == nil || !strings.Contains(err.Error(), "inactivity_limit") {
			t.Errorf("expected an inactivity_limit error, got %v", err)
		}
	})
}

func TestNewAIBot(t *testing.T) {
	t.Run("nothing configured is a missing key", func(t *testing.T) {
		bot, err := newAIBot(context.Background(), config.Default())

		if bot != nil || !errors.Is(err, ai_bot.ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("a host selects the http bot", func(t *testing.T) {
		cfg := config.Default()
		cfg.AI.Host = "http://localhost:8080"

		bot, err := newAIBot(context.Background(), cfg)
		if err != nil || bot == nil {
			t.Errorf("expected an http bot, got %v", err)
		}
	})
}

func TestNewSpeaker(t *testing.T) {
	cfg := config.Default()
	cfg.Speech.Disabled = true

	speaker, closeSpeaker, err := newSpeaker(cfg)
	defer closeSpeaker()

	if speaker != nil || err != nil {
		t.Errorf("expected no speaker and no error, got %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("error with Execute: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "jarvis dev") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
