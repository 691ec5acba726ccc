package text_to_speech

import (
	"fmt"

	"github.com/go-audio/audio"
	"github.com/gordonklaus/portaudio"
)

const defaultFramesPerBuffer = 1024

type playerImpl struct {
	framesPerBuffer int
}

// NewPlayer initializes PortAudio for playback on the default output device.
func NewPlayer() (Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize audio: %w", err)
	}

	return &playerImpl{
		framesPerBuffer: defaultFramesPerBuffer,
	}, nil
}

func (p *playerImpl) Play(buf *audio.IntBuffer) error {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("buffer has no format")
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	out := make([]int16, p.framesPerBuffer*channels)

	stream, err := portaudio.OpenDefaultStream(0, channels, float64(buf.Format.SampleRate), p.framesPerBuffer, out)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}

	defer stream.Close()

	err = stream.Start()
	if err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}

	for _, chunk := range chunks(buf.Data, len(out)) {
		for i := range out {
			if i < len(chunk) {
				out[i] = int16(chunk[i])
			} else {
				out[i] = 0
			}
		}

		err = stream.Write()
		if err != nil {
			return fmt.Errorf("write output stream: %w", err)
		}
	}

	// Stop drains what is still queued, so playback is complete when it returns
	return stream.Stop()
}

func (p *playerImpl) Close() error {
	return portaudio.Terminate()
}

// chunks splits interleaved samples into slices of at most size samples.
func chunks(data []int, size int) [][]int {
	out := make([][]int, 0, len(data)/size+1)

	for start := 0; start < len(data); start += size {
		end := start + size
		if end > len(data) {
			end = len(data)
		}

		out = append(out, data[start:end])
	}

	return out
}
