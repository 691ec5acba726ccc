package ai_bot

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	t.Run("nil config is rejected", func(t *testing.T) {
		if _, err := NewClient(nil); err == nil {
			t.Errorf("expected an error for nil config")
		}
	})

	t.Run("missing host is rejected", func(t *testing.T) {
		if _, err := NewClient(&Config{}); err == nil {
			t.Errorf("expected an error for empty host")
		}
	})
}

func TestClient_SendPrompt(t *testing.T) {
	t.Run("prompt is sent as a query parameter and the body is the reply", func(t *testing.T) {
		var gotPrompt, gotPath string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotPrompt = r.URL.Query().Get("prompt")
			_, _ = io.WriteString(w, "  Forty two.\n")
		}))
		defer server.Close()

		client, err := NewClient(&Config{ApiHost: server.URL + "/"})
		if err != nil {
			t.Fatalf("error with NewClient: %v", err)
		}

		reply, err := client.SendPrompt(context.Background(), "what is the answer & why")
		if err != nil {
			t.Fatalf("error with SendPrompt: %v", err)
		}

		if gotPath != "/get_prompt_response" {
			t.Errorf("expected /get_prompt_response, got %s", gotPath)
		}

		if gotPrompt != "what is the answer & why" {
			t.Errorf("expected prompt to round trip, got %q", gotPrompt)
		}

		if reply != "Forty two." {
			t.Errorf("expected trimmed reply, got %q", reply)
		}
	})

	t.Run("non 2xx status is a generation error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client, _ := NewClient(&Config{ApiHost: server.URL})

		_, err := client.SendPrompt(context.Background(), "hello")

		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("expected GenerationError, got %v", err)
		}

		if !strings.Contains(genErr.Detail, "503") {
			t.Errorf("expected status in detail, got %q", genErr.Detail)
		}
	})

	t.Run("empty body is a generation error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		client, _ := NewClient(&Config{ApiHost: server.URL})

		_, err := client.SendPrompt(context.Background(), "hello")

		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Errorf("expected GenerationError, got %v", err)
		}
	})

	t.Run("unreachable host is a generation error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client, _ := NewClient(&Config{ApiHost: url})

		_, err := client.SendPrompt(context.Background(), "hello")

		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Errorf("expected GenerationError, got %v", err)
		}
	})
}

func TestNewGemini(t *testing.T) {
	t.Run("nil config is rejected", func(t *testing.T) {
		if _, err := NewGemini(context.Background(), nil); err == nil {
			t.Errorf("expected an error for nil config")
		}
	})

	t.Run("missing api key disables the client", func(t *testing.T) {
		_, err := NewGemini(context.Background(), &GeminiConfig{})
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})
}

func TestGemini_SendPrompt(t *testing.T) {
	newServer := func(t *testing.T, status int, body string, gotBody *string) *httptest.Server {
		t.Helper()

		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}

			if r.Header.Get("x-goog-api-key") != "test-key" {
				t.Errorf("expected api key header")
			}

			raw, _ := io.ReadAll(r.Body)
			if gotBody != nil {
				*gotBody = string(raw)
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		}))
	}

	t.Run("candidate text is the reply", func(t *testing.T) {
		var gotBody string

		server := newServer(t, http.StatusOK,
			`{"candidates":[{"content":{"role":"model","parts":[{"text":"Good evening, "},{"text":"sir."}]}}]}`,
			&gotBody)
		defer server.Close()

		bot, err := NewGemini(context.Background(), &GeminiConfig{
			APIKey:  "test-key",
			Model:   "gemini-test",
			BaseURL: server.URL,
		})
		if err != nil {
			t.Fatalf("error with NewGemini: %v", err)
		}

		reply, err := bot.SendPrompt(context.Background(), "tell me a joke")
		if err != nil {
			t.Fatalf("error with SendPrompt: %v", err)
		}

		if reply != "Good evening, sir." {
			t.Errorf("expected joined parts, got %q", reply)
		}

		if !strings.Contains(gotBody, "tell me a joke") {
			t.Errorf("expected prompt in request body, got %s", gotBody)
		}

		if !strings.Contains(gotBody, "J.A.R.V.I.S.") {
			t.Errorf("expected persona as system instruction, got %s", gotBody)
		}
	})

	t.Run("api failure is a generation error", func(t *testing.T) {
		server := newServer(t, http.StatusTooManyRequests,
			`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`, nil)
		defer server.Close()

		bot, _ := NewGemini(context.Background(), &GeminiConfig{
			APIKey:  "test-key",
			Model:   "gemini-test",
			BaseURL: server.URL,
		})

		_, err := bot.SendPrompt(context.Background(), "hello")

		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("expected GenerationError, got %v", err)
		}

		if genErr.Backend != "gemini" {
			t.Errorf("expected gemini backend, got %s", genErr.Backend)
		}
	})

	t.Run("no candidates is a generation error", func(t *testing.T) {
		server := newServer(t, http.StatusOK, `{"candidates":[]}`, nil)
		defer server.Close()

		bot, _ := NewGemini(context.Background(), &GeminiConfig{
			APIKey:  "test-key",
			Model:   "gemini-test",
			BaseURL: server.URL,
		})

		if _, err := bot.SendPrompt(context.Background(), "hello"); err == nil {
			t.Errorf("expected an error for an empty response")
		}
	})
}
