package ai_bot

import (
	"context"
	"errors"
	"fmt"
)

var ErrMissingAPIKey = errors.New("ai_bot: missing api key")

type AIBotAPI interface {
	SendPrompt(ctx context.Context, prompt string) (string, error)
}

// GenerationError wraps any failure to produce a reply. Detail is short
// enough to be read out to the user.
type GenerationError struct {
	Backend string
	Detail  string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("ai_bot [%s]: %s", e.Backend, e.Detail)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func generationError(backend string, err error) error {
	return &GenerationError{Backend: backend, Detail: err.Error(), Err: err}
}
