// Command jarvis is a voice assistant. It waits for its wake word, then
// listens for commands until told to stand down or left idle.
//
// Usage:
//
//	jarvis --model models/ggml-base.en.bin [--config jarvis.yaml]
//	jarvis version
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"jarvis-assistant/assistant"
	"jarvis-assistant/clients/ai_bot"
	"jarvis-assistant/config"
	"jarvis-assistant/console"
	"jarvis-assistant/events"
	"jarvis-assistant/launcher"
	"jarvis-assistant/listener"
	"jarvis-assistant/logging"
	"jarvis-assistant/speech_extraction"
	"jarvis-assistant/speech_to_text"
	"jarvis-assistant/text_to_speech"
)

type options struct {
	configPath string
	envFile    string
	model      string
	wakeWord   string
	logLevel   string
	noSpeech   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "jarvis",
		Short: "Voice assistant with wake word activation",
		Long: `jarvis listens for its wake word, then treats what you say as commands:

  open notepad        open the configured text editor
  what time is it     read out the time
  search for <query>  open a web search
  stand down          return to standby
  shut down           exit

Anything else is answered by Gemini when GEMINI_API_KEY is set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(afero.NewOsFs(), opts, os.LookupEnv)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file read before the environment")
	flags.StringVarP(&opts.model, "model", "m", "", "model file for whisper")
	flags.StringVar(&opts.wakeWord, "wake-word", "", "word that activates the assistant")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.BoolVar(&opts.noSpeech, "no-speech", false, "print responses without speaking them")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers the config file, the dotenv file, the environment and
// the command line flags.
func loadConfig(fs afero.Fs, opts *options, lookup config.LookupFunc) (*config.Config, error) {
	cfg, err := config.Load(fs, opts.configPath)
	if err != nil {
		return nil, err
	}

	dotenv, err := config.LoadDotEnv(fs, opts.envFile)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(config.Chain(lookup, dotenv))

	if opts.model != "" {
		cfg.Whisper.Model = opts.model
	}

	if opts.wakeWord != "" {
		cfg.WakeWord = opts.wakeWord
	}

	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	if opts.noSpeech {
		cfg.Speech.Disabled = true
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.Init(cfg.LogLevel, os.Stderr)
	logger := logging.With("component", "main")

	if cfg.Whisper.Model == "" {
		return errors.New("model file not specified")
	}

	model, err := whisper.New(cfg.Whisper.Model)
	if err != nil {
		return fmt.Errorf("error loading model: %w", err)
	}

	defer model.Close()

	mic, err := listener.New(&listener.Config{
		SampleRate: cfg.Capture.DeviceSampleRate,
		QuietTime:  cfg.Capture.QuietTime,
	})
	if err != nil {
		return fmt.Errorf("error with listener.New: %w", err)
	}

	defer mic.Close()

	var archive speech_extraction.Interface
	if cfg.Capture.ArchiveDir != "" {
		archive, err = speech_extraction.New(&speech_extraction.Config{
			FileSys: afero.NewOsFs(),
			Dir:     cfg.Capture.ArchiveDir,
		})
		if err != nil {
			logger.Warn("utterance archive disabled", "err", err)
			archive = nil
		}
	}

	sttEngine, err := speech_to_text.New(&speech_to_text.Config{
		Model:       model,
		Listener:    mic,
		Archive:     archive,
		Language:    cfg.Whisper.Language,
		Threads:     cfg.Whisper.Threads,
		WaitTimeout: cfg.Capture.WaitTimeout,
		PhraseLimit: cfg.Capture.PhraseLimit,
	})
	if err != nil {
		return fmt.Errorf("error with speech_to_text.New: %w", err)
	}

	speaker, closeSpeaker, speechErr := newSpeaker(cfg)
	if speechErr != nil {
		logger.Warn("speech output disabled", "err", speechErr)
	}

	defer closeSpeaker()

	aiBot, aiErr := newAIBot(ctx, cfg)
	if aiErr != nil {
		logger.Warn("ai core disabled", "err", aiErr)
	}

	apps, err := launcher.New(&launcher.Config{
		Application: cfg.Launcher.Application,
	})
	if err != nil {
		return fmt.Errorf("error with launcher.New: %w", err)
	}

	bus := events.NewBus(events.DefaultBufferSize)
	out := console.New(os.Stdout)

	go events.Dispatch(context.Background(), bus.Events(), out)

	jarvis, err := assistant.New(&assistant.Config{
		Transcriber:       sttEngine,
		Speaker:           speaker,
		AIBot:             aiBot,
		Launcher:          apps,
		Events:            bus,
		WakeWord:          cfg.WakeWord,
		InactivityLimit:   cfg.InactivityLimit,
		Pause:             cfg.LoopPause,
		GenerationTimeout: cfg.AI.Timeout,
		SearchURL:         cfg.Launcher.SearchURL,
		SpeechInitError:   speechErr,
		AIInitError:       aiErr,
	})
	if err != nil {
		return fmt.Errorf("error with assistant.New: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		bus.Log(events.SenderSystem, "Shutdown sequence initiated.")
		jarvis.Stop()
	}()

	err = jarvis.Run(ctx)
	if err != nil {
		return err
	}

	select {
	case <-out.Done():
	case <-time.After(time.Second):
		logger.Debug("console did not drain")
	}

	return nil
}

// newSpeaker returns a nil speaker when speech is disabled or the engine is
// unavailable. The returned close function is always safe to call.
func newSpeaker(cfg *config.Config) (text_to_speech.Interface, func(), error) {
	noop := func() {}

	if cfg.Speech.Disabled {
		return nil, noop, nil
	}

	player, err := text_to_speech.NewPlayer()
	if err != nil {
		return nil, noop, err
	}

	closePlayer := func() {
		err := player.Close()
		if err != nil {
			logging.L().Debug("close player", "err", err)
		}
	}

	speaker, err := text_to_speech.New(&text_to_speech.Config{
		Command: cfg.Speech.Command,
		Voice:   cfg.Speech.Voice,
		Rate:    cfg.Speech.Rate,
		FileSys: afero.NewOsFs(),
		Player:  player,
	})
	if err != nil {
		closePlayer()

		return nil, noop, err
	}

	return speaker, closePlayer, nil
}

// newAIBot prefers Gemini and falls back to the HTTP bot when only a host is
// configured.
func newAIBot(ctx context.Context, cfg *config.Config) (ai_bot.AIBotAPI, error) {
	switch {
	case cfg.AI.APIKey != "":
		return ai_bot.NewGemini(ctx, &ai_bot.GeminiConfig{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			Persona: cfg.AI.Persona,
		})
	case cfg.AI.Host != "":
		return ai_bot.NewClient(&ai_bot.Config{
			ApiHost: cfg.AI.Host,
		})
	default:
		return nil, ai_bot.ErrMissingAPIKey
	}
}
