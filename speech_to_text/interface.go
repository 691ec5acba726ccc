package speech_to_text

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout means nobody started speaking within the capture window.
	ErrTimeout = errors.New("speech_to_text: timed out waiting for speech")

	// ErrNoSpeech means audio was captured but nothing intelligible was in it.
	ErrNoSpeech = errors.New("speech_to_text: no speech detected")
)

// ServiceUnavailableError is returned when the microphone or the recognizer
// itself failed. Detail is meant to be read out to the user.
type ServiceUnavailableError struct {
	Detail string
	Err    error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("speech_to_text: service unavailable: %s", e.Detail)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(detail string, err error) error {
	if err != nil {
		detail = detail + ": " + err.Error()
	}

	return &ServiceUnavailableError{Detail: detail, Err: err}
}

type Interface interface {
	// Capture records one bounded phrase and returns its text. The prompt
	// describes what is being waited for. Capture blocks and cannot be
	// cancelled.
	Capture(prompt string) (string, error)
}
