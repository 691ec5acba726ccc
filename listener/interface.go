package listener

import (
	"errors"
	"time"

	"github.com/go-audio/audio"
)

var ErrWaitTimeout = errors.New("listener: no speech before wait timeout")

type Interface interface {
	// Record blocks until one phrase has been heard and returns it as 16-bit
	// mono PCM. It returns ErrWaitTimeout if nobody starts speaking within
	// waitTimeout. A phrase is cut off after phraseLimit.
	Record(waitTimeout, phraseLimit time.Duration) (*audio.IntBuffer, error)
	Close() error
}
