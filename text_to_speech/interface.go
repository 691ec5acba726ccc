package text_to_speech

import "github.com/go-audio/audio"

type Interface interface {
	// Speak renders text to the speaker and blocks until playback is done.
	Speak(text string) error
}

type Player interface {
	Play(buf *audio.IntBuffer) error
	Close() error
}
