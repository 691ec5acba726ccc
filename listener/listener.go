package listener

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-audio/audio"
	"github.com/gordonklaus/portaudio"

	"jarvis-assistant/logging"
)

const (
	defaultSampleRate = 16000
	defaultFrameSize  = 1024
	defaultQuietTime  = time.Millisecond * 200
	defaultPreRoll    = time.Millisecond * 500
)

type listenerImpl struct {
	sampleRate int
	in         []int16
	detector   *phraseDetector
	stream     *portaudio.Stream
	logger     *slog.Logger
}

type Config struct {
	SampleRate int
	FrameSize  int
	QuietTime  time.Duration
	PreRoll    time.Duration
}

// New initializes PortAudio and opens the default input device.
func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
	}

	frameSize := cfg.FrameSize
	if frameSize == 0 {
		frameSize = defaultFrameSize
	}

	quietTime := cfg.QuietTime
	if quietTime == 0 {
		quietTime = defaultQuietTime
	}

	preRoll := cfg.PreRoll
	if preRoll == 0 {
		preRoll = defaultPreRoll
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize audio: %w", err)
	}

	in := make([]int16, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(in), in)
	if err != nil {
		_ = portaudio.Terminate()

		return nil, fmt.Errorf("open input stream: %w", err)
	}

	return &listenerImpl{
		sampleRate: sampleRate,
		in:         in,
		detector:   newPhraseDetector(len(in), int(preRoll.Seconds()*float64(sampleRate)), quietTime, 0),
		stream:     stream,
		logger:     logging.With("component", "listener"),
	}, nil
}

func (l *listenerImpl) Record(waitTimeout, phraseLimit time.Duration) (*audio.IntBuffer, error) {
	err := l.stream.Start()
	if err != nil {
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	defer func() {
		if err := l.stream.Stop(); err != nil {
			l.logger.Warn("error stopping input stream", "err", err)
		}
	}()

	detector := l.detector
	detector.reset(phraseLimit)
	begin := time.Now()

	for {
		err = l.stream.Read()
		if err != nil {
			return nil, fmt.Errorf("read input stream: %w", err)
		}

		now := time.Now()

		if detector.feed(l.in, now) {
			break
		}

		if !detector.heardSomething && waitTimeout > 0 && now.Sub(begin) > waitTimeout {
			return nil, ErrWaitTimeout
		}
	}

	l.logger.Debug("phrase captured",
		"samples", len(detector.samples),
		"duration", time.Duration(len(detector.samples))*time.Second/time.Duration(l.sampleRate))

	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  l.sampleRate,
		},
		Data:           detector.samples,
		SourceBitDepth: 16,
	}, nil
}

func (l *listenerImpl) Close() error {
	err := l.stream.Close()

	if termErr := portaudio.Terminate(); termErr != nil && err == nil {
		err = termErr
	}

	return err
}
