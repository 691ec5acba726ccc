package listener

import (
	"time"

	"jarvis-assistant/ring_buffer"
	"jarvis-assistant/voice_activity_detection"
)

const (
	// fluxRatio is how far flux has to jump (or fall) between frames to count
	// as the start (or the end) of speech.
	fluxRatio = 1.75

	// fluxFloor keeps a silent room from turning any noise into an onset.
	fluxFloor = 1.0

	// phraseGrowth is how many frames after onset the first allocation holds.
	phraseGrowth = 16
)

// phraseDetector turns a stream of frames into one phrase: pre-roll while
// waiting, samples from onset until quietTime of falling flux or phraseLimit.
type phraseDetector struct {
	vad         *voice_activity_detection.Detector
	preRoll     ring_buffer.Interface
	quietTime   time.Duration
	phraseLimit time.Duration

	heardSomething bool
	quiet          bool
	quietStart     time.Time
	startTime      time.Time
	lastFlux       float64
	samples        []int
}

func newPhraseDetector(frameSize, preRollSize int, quietTime, phraseLimit time.Duration) *phraseDetector {
	return &phraseDetector{
		vad:         voice_activity_detection.New(frameSize),
		preRoll:     ring_buffer.New(preRollSize),
		quietTime:   quietTime,
		phraseLimit: phraseLimit,
	}
}

// reset prepares the detector for a new phrase. The samples of the previous
// phrase are released, not reused.
func (d *phraseDetector) reset(phraseLimit time.Duration) {
	d.vad.Reset()
	d.preRoll.Clear()

	d.phraseLimit = phraseLimit
	d.heardSomething = false
	d.quiet = false
	d.quietStart = time.Time{}
	d.startTime = time.Time{}
	d.lastFlux = 0
	d.samples = nil
}

// feed consumes one frame captured at now and reports whether the phrase is
// complete.
func (d *phraseDetector) feed(frame []int16, now time.Time) bool {
	flux := d.vad.Flux(frame)

	if !d.heardSomething {
		d.preRoll.Add(frame)

		baseline := d.lastFlux
		if baseline < fluxFloor {
			baseline = fluxFloor
		}

		if flux >= baseline*fluxRatio {
			d.heardSomething = true
			d.startTime = now

			// the pre-roll already holds the current frame
			d.samples = make([]int, 0, d.preRoll.Len()+phraseGrowth*len(frame))
			for _, s := range d.preRoll.Read() {
				d.samples = append(d.samples, int(s))
			}

			// the onset frame is always louder in flux than steady speech,
			// so the next frame sets the baseline
			d.lastFlux = 0

			return false
		}

		d.lastFlux = flux

		return false
	}

	for _, s := range frame {
		d.samples = append(d.samples, int(s))
	}

	if d.phraseLimit > 0 && now.Sub(d.startTime) >= d.phraseLimit {
		return true
	}

	if d.lastFlux == 0 && flux > 0 {
		d.lastFlux = flux

		return false
	}

	if flux*fluxRatio <= d.lastFlux {
		if !d.quiet {
			d.quiet = true
			d.quietStart = now

			return false
		}

		return now.Sub(d.quietStart) > d.quietTime
	}

	d.quiet = false
	d.lastFlux = flux

	return false
}
