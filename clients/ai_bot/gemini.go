package ai_bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultPersona     = "You are J.A.R.V.I.S., a witty and helpful AI assistant. Respond concisely."
)

type geminiImpl struct {
	client  *genai.Client
	model   string
	persona string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Persona string

	// BaseURL overrides the Gemini endpoint.
	BaseURL string
}

// NewGemini builds a client for the Gemini API. No request is made until the
// first prompt.
func NewGemini(ctx context.Context, cfg *GeminiConfig) (AIBotAPI, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}

	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	persona := cfg.Persona
	if persona == "" {
		persona = DefaultPersona
	}

	return &geminiImpl{
		client:  client,
		model:   model,
		persona: persona,
	}, nil
}

func (g *geminiImpl) SendPrompt(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.persona, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", generationError("gemini", err)
	}

	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", generationError("gemini", errors.New("empty response"))
	}

	return reply, nil
}
