package voice_activity_detection

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Detector measures spectral flux between consecutive audio frames. Speech
// changes its spectrum constantly, so a rising flux marks the start of a
// phrase and a collapsing flux marks its end.
type Detector struct {
	frameSize int
	previous  []float64
	scratch   []float64
}

func New(frameSize int) *Detector {
	if frameSize < 2 {
		frameSize = 2
	}

	return &Detector{
		frameSize: frameSize,
		scratch:   make([]float64, frameSize),
	}
}

// Flux returns the summed positive magnitude change of every frequency bin
// since the previous frame. Frames shorter than the configured size are zero
// padded, longer ones are truncated.
func (d *Detector) Flux(samples []int16) float64 {
	for i := range d.scratch {
		if i < len(samples) {
			d.scratch[i] = float64(samples[i]) / 32768
		} else {
			d.scratch[i] = 0
		}
	}

	window.Apply(d.scratch, window.Hann)

	spectrum := fft.FFTReal(d.scratch)
	bins := d.frameSize/2 + 1

	magnitudes := make([]float64, bins)
	for i := 0; i < bins; i++ {
		magnitudes[i] = cmplx.Abs(spectrum[i])
	}

	var flux float64

	for i, m := range magnitudes {
		var prev float64
		if d.previous != nil {
			prev = d.previous[i]
		}

		if diff := m - prev; diff > 0 {
			flux += diff
		}
	}

	d.previous = magnitudes

	return flux
}

// Reset forgets the previous frame.
func (d *Detector) Reset() {
	d.previous = nil
}
