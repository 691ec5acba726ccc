// Package assistant runs the voice interaction loop: it waits for the wake
// word in standby, then captures and executes commands until the user is
// quiet for too long or dismisses it.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"jarvis-assistant/clients/ai_bot"
	"jarvis-assistant/command"
	"jarvis-assistant/events"
	"jarvis-assistant/launcher"
	"jarvis-assistant/logging"
	"jarvis-assistant/speech_to_text"
	"jarvis-assistant/text_to_speech"
)

const (
	DefaultWakeWord          = "jarvis"
	DefaultInactivityLimit   = 60 * time.Second
	DefaultPause             = 100 * time.Millisecond
	DefaultGenerationTimeout = 30 * time.Second
	DefaultSearchURL         = "https://www.google.com/search?q="
)

const (
	statusAwaitingWakeWord = "Awaiting Wake Word..."
	statusAwaitingCommand  = "Awaiting Command..."
	statusSpeaking         = "SPEAKING"
	statusIdle             = "IDLE"
	statusThinking         = "THINKING"

	phraseOnline          = "Systems online. Standing by for activation."
	phraseActivated       = "Activated. How can I help you?"
	phraseInactivity      = "Inactivity detected. Returning to standby."
	phraseConnectionError = "Connection error to speech service: %s"
)

type assistantImpl struct {
	transcriber speech_to_text.Interface
	speaker     text_to_speech.Interface
	aiBot       ai_bot.AIBotAPI
	launcher    launcher.Interface
	events      *events.Bus
	interpreter command.Interface

	wakeWord          string
	inactivityLimit   time.Duration
	pause             time.Duration
	generationTimeout time.Duration
	searchURL         string
	now               func() time.Time

	speechInitErr error
	aiInitErr     error

	mode            atomic.Int32
	running         atomic.Bool
	started         atomic.Bool
	lastInteraction time.Time

	logger *slog.Logger
}

type Config struct {
	Transcriber speech_to_text.Interface

	// Speaker may be nil, in which case responses are only logged.
	Speaker text_to_speech.Interface

	// AIBot may be nil, in which case unrecognized commands get an apology.
	AIBot ai_bot.AIBotAPI

	Launcher    launcher.Interface
	Events      *events.Bus
	Interpreter command.Interface

	WakeWord          string
	InactivityLimit   time.Duration
	Pause             time.Duration
	GenerationTimeout time.Duration
	SearchURL         string
	Now               func() time.Time

	// SpeechInitError and AIInitError explain why Speaker or AIBot is nil.
	// They are reported once when Run starts.
	SpeechInitError error
	AIInitError     error
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Transcriber == nil {
		return nil, fmt.Errorf("transcriber is nil")
	}

	if cfg.Launcher == nil {
		return nil, fmt.Errorf("launcher is nil")
	}

	if cfg.Events == nil {
		return nil, fmt.Errorf("events is nil")
	}

	a := &assistantImpl{
		transcriber:       cfg.Transcriber,
		speaker:           cfg.Speaker,
		aiBot:             cfg.AIBot,
		launcher:          cfg.Launcher,
		events:            cfg.Events,
		interpreter:       cfg.Interpreter,
		wakeWord:          strings.ToLower(strings.TrimSpace(cfg.WakeWord)),
		inactivityLimit:   cfg.InactivityLimit,
		pause:             cfg.Pause,
		generationTimeout: cfg.GenerationTimeout,
		searchURL:         cfg.SearchURL,
		now:               cfg.Now,
		speechInitErr:     cfg.SpeechInitError,
		aiInitErr:         cfg.AIInitError,
		logger:            logging.With("component", "assistant"),
	}

	if a.interpreter == nil {
		a.interpreter = command.New(command.DefaultRules)
	}

	if a.wakeWord == "" {
		a.wakeWord = DefaultWakeWord
	}

	if a.inactivityLimit <= 0 {
		a.inactivityLimit = DefaultInactivityLimit
	}

	if a.pause <= 0 {
		a.pause = DefaultPause
	}

	if a.generationTimeout <= 0 {
		a.generationTimeout = DefaultGenerationTimeout
	}

	if a.searchURL == "" {
		a.searchURL = DefaultSearchURL
	}

	if a.now == nil {
		a.now = time.Now
	}

	a.running.Store(true)

	return a, nil
}

func (a *assistantImpl) Mode() Mode {
	return Mode(a.mode.Load())
}

func (a *assistantImpl) setMode(m Mode) {
	if Mode(a.mode.Swap(int32(m))) != m {
		a.logger.Info("mode changed", "mode", m)
	}
}

func (a *assistantImpl) Stop() {
	if a.running.CompareAndSwap(true, false) {
		a.logger.Info("stop requested")
	}
}

func (a *assistantImpl) Run(ctx context.Context) error {
	if !a.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	defer a.events.Terminal()

	a.announce()
	a.speak(phraseOnline)

	for a.running.Load() {
		if ctx.Err() != nil {
			a.Stop()
			break
		}

		pause := a.step(ctx)

		if !a.running.Load() {
			break
		}

		if !pause {
			continue
		}

		timer := time.NewTimer(a.pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			a.Stop()
		case <-timer.C:
		}
	}

	a.logger.Info("assistant stopped", "dropped_events", a.events.Dropped())

	return nil
}

// announce reports which optional capabilities are available.
func (a *assistantImpl) announce() {
	if a.speechInitErr != nil {
		a.events.Log(events.SenderSystemError, fmt.Sprintf("Failed to initialize TTS engine: %v", a.speechInitErr))
	}

	switch {
	case a.aiBot != nil:
		a.events.Log(events.SenderSystem, "AI Core successfully engaged.")
	case a.aiInitErr == nil || errors.Is(a.aiInitErr, ai_bot.ErrMissingAPIKey):
		a.events.Log(events.SenderSystemError, "Gemini API key not found. AI features disabled.")
	default:
		a.events.Log(events.SenderSystemError, fmt.Sprintf("Failed to initialize Gemini AI: %v", a.aiInitErr))
	}
}

// step runs one iteration of the loop for the current mode. It returns
// false when the next iteration should start without the pause.
func (a *assistantImpl) step(ctx context.Context) bool {
	switch a.Mode() {
	case ModeActive:
		if a.now().Sub(a.lastInteraction) > a.inactivityLimit {
			a.speak(phraseInactivity)
			a.setMode(ModeStandby)

			return false
		}

		transcript, ok := a.listen(statusAwaitingCommand)
		if !ok {
			return true
		}

		a.lastInteraction = a.now()
		a.execute(ctx, a.interpreter.Interpret(transcript))
	default:
		transcript, ok := a.listen(statusAwaitingWakeWord)
		if !ok || !strings.Contains(transcript, a.wakeWord) {
			return true
		}

		a.setMode(ModeActive)
		a.lastInteraction = a.now()
		a.speak(phraseActivated)
	}

	return true
}

// listen captures one phrase. It returns false when nothing usable was
// heard.
func (a *assistantImpl) listen(prompt string) (string, bool) {
	a.events.Status(prompt)
	a.events.Visual(events.VisualListening)

	text, err := a.transcriber.Capture(prompt)
	if err != nil {
		if errors.Is(err, speech_to_text.ErrTimeout) || errors.Is(err, speech_to_text.ErrNoSpeech) {
			a.events.Visual(events.VisualIdle)

			return "", false
		}

		detail := err.Error()

		var unavailable *speech_to_text.ServiceUnavailableError
		if errors.As(err, &unavailable) {
			detail = unavailable.Detail
		}

		a.logger.Warn("capture failed", "err", err)
		a.speak(fmt.Sprintf(phraseConnectionError, detail))

		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		a.events.Visual(events.VisualIdle)

		return "", false
	}

	a.events.Log(events.SenderUser, text)

	return strings.ToLower(text), true
}

func (a *assistantImpl) speak(text string) {
	a.events.Log(events.SenderJarvis, text)
	a.events.Visual(events.VisualSpeaking)
	a.events.Status(statusSpeaking)

	if a.speaker != nil {
		err := a.speaker.Speak(text)
		if err != nil {
			a.logger.Warn("speech failed", "err", err)
			a.events.Log(events.SenderSystemError, fmt.Sprintf("Speech error: %v", err))
		}
	}

	a.events.Visual(events.VisualIdle)
	a.events.Status(statusIdle)
}
