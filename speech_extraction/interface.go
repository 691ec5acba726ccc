package speech_extraction

import "github.com/go-audio/audio"

// Interface writes captured phrases to disk so recognition problems can be
// replayed later.
type Interface interface {
	Save(buf *audio.IntBuffer) (string, error)
}
