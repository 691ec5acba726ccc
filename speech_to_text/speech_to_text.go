package speech_to_text

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/audio"

	"jarvis-assistant/listener"
	"jarvis-assistant/logging"
	"jarvis-assistant/speech_extraction"
)

const (
	defaultWaitTimeout = time.Second * 5
	defaultPhraseLimit = time.Second * 15
)

// SampleRate is the only rate whisper accepts. Captures are 16-bit mono.
const SampleRate = 16000

type sttImpl struct {
	model       whisper.Model
	listener    listener.Interface
	archive     speech_extraction.Interface
	language    string
	threads     uint
	waitTimeout time.Duration
	phraseLimit time.Duration
	logger      *slog.Logger
}

type Config struct {
	Model    whisper.Model
	Listener listener.Interface

	// Archive is optional. When set every captured phrase is saved before
	// recognition.
	Archive speech_extraction.Interface

	Language    string
	Threads     uint
	WaitTimeout time.Duration
	PhraseLimit time.Duration
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Model == nil {
		return nil, fmt.Errorf("model is nil")
	}

	if cfg.Listener == nil {
		return nil, fmt.Errorf("listener is nil")
	}

	waitTimeout := cfg.WaitTimeout
	if waitTimeout == 0 {
		waitTimeout = defaultWaitTimeout
	}

	phraseLimit := cfg.PhraseLimit
	if phraseLimit == 0 {
		phraseLimit = defaultPhraseLimit
	}

	return &sttImpl{
		model:       cfg.Model,
		listener:    cfg.Listener,
		archive:     cfg.Archive,
		language:    cfg.Language,
		threads:     cfg.Threads,
		waitTimeout: waitTimeout,
		phraseLimit: phraseLimit,
		logger:      logging.With("component", "speech_to_text"),
	}, nil
}

func (stt *sttImpl) Capture(prompt string) (string, error) {
	stt.logger.Debug("capturing", "prompt", prompt)

	waveBuffer, err := stt.listener.Record(stt.waitTimeout, stt.phraseLimit)
	if errors.Is(err, listener.ErrWaitTimeout) {
		return "", ErrTimeout
	}

	if err != nil {
		return "", unavailable("microphone failure", err)
	}

	if waveBuffer.NumFrames() == 0 {
		return "", ErrNoSpeech
	}

	if waveBuffer.Format.SampleRate != SampleRate {
		return "", unavailable(fmt.Sprintf("unsupported sample rate %d Hz, expected %d Hz", waveBuffer.Format.SampleRate, SampleRate), nil)
	}

	if stt.archive != nil {
		name, saveErr := stt.archive.Save(waveBuffer)
		if saveErr != nil {
			stt.logger.Warn("error archiving utterance", "err", saveErr)
		} else {
			stt.logger.Debug("utterance archived", "file", name)
		}
	}

	text, err := stt.process(waveBuffer)
	if err != nil {
		return "", unavailable("recognizer failure", err)
	}

	if text == "" {
		return "", ErrNoSpeech
	}

	return text, nil
}

func (stt *sttImpl) process(waveBuffer *audio.IntBuffer) (string, error) {
	// Create processing context
	context, err := stt.model.NewContext()
	if err != nil {
		return "", err
	}

	if stt.language != "" {
		err = context.SetLanguage(stt.language)
		if err != nil {
			return "", err
		}
	}

	if stt.threads > 0 {
		context.SetThreads(stt.threads)
	}

	err = context.Process(toFloat32(waveBuffer), nil)
	if err != nil {
		return "", err
	}

	return joinSegments(context.NextSegment)
}

// toFloat32 scales 16-bit samples into the [-1, 1] range whisper expects.
func toFloat32(buf *audio.IntBuffer) []float32 {
	data := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		data[i] = float32(s) / 32768
	}

	return data
}

// joinSegments concatenates segment text, dropping annotations such as
// "[BLANK_AUDIO]" or "(music)" and segments whisper repeats.
func joinSegments(next func() (whisper.Segment, error)) (string, error) {
	seenText := make(map[string]bool)
	parts := make([]string, 0)

	for {
		segment, err := next()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}

		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}

		// if segment text starts or ends with a parenthesis or a bracket, then ignore it
		if text[0] == '(' || text[0] == '[' || text[len(text)-1] == ')' || text[len(text)-1] == ']' {
			continue
		}

		if seenText[text] {
			continue
		}

		seenText[text] = true
		parts = append(parts, text)
	}

	return strings.Join(parts, " "), nil
}
