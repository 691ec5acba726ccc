package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"jarvis-assistant/events"
)

func TestConsole(t *testing.T) {
	t.Run("log lines carry the sender", func(t *testing.T) {
		var buf bytes.Buffer
		c := New(&buf)

		c.OnLog(events.SenderJarvis, "Activated. How can I help you?")
		c.OnLog(events.SenderUser, "Hey Jarvis")
		c.OnLog(events.Sender("OTHER"), "fallback")

		out := buf.String()
		for _, expected := range []string{
			"JARVIS: Activated. How can I help you?",
			"USER: Hey Jarvis",
			"OTHER: fallback",
		} {
			if !strings.Contains(out, expected) {
				t.Errorf("expected %q in %q", expected, out)
			}
		}
	})

	t.Run("repeated status is printed once", func(t *testing.T) {
		var buf bytes.Buffer
		c := New(&buf)

		c.OnStatus("Awaiting Wake Word...")
		c.OnStatus("Awaiting Wake Word...")
		c.OnStatus("SPEAKING")

		if n := strings.Count(buf.String(), "Awaiting Wake Word..."); n != 1 {
			t.Errorf("expected 1 status line, got %d", n)
		}

		if !strings.Contains(buf.String(), "SPEAKING") {
			t.Errorf("expected SPEAKING in %q", buf.String())
		}
	})

	t.Run("visual state is not printed", func(t *testing.T) {
		var buf bytes.Buffer
		c := New(&buf)

		c.OnVisualState(events.VisualListening)

		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("terminal closes done once", func(t *testing.T) {
		var buf bytes.Buffer
		c := New(&buf)

		c.OnTerminal()
		c.OnTerminal()

		select {
		case <-c.Done():
		default:
			t.Fatalf("expected done to be closed")
		}

		if n := strings.Count(buf.String(), "All systems offline."); n != 1 {
			t.Errorf("expected 1 offline line, got %d", n)
		}
	})

	t.Run("works as a dispatch observer", func(t *testing.T) {
		var buf bytes.Buffer
		c := New(&buf)
		bus := events.NewBus(8)

		bus.Log(events.SenderSystem, "AI Core successfully engaged.")
		bus.Terminal()

		go events.Dispatch(context.Background(), bus.Events(), c)

		select {
		case <-c.Done():
		case <-time.After(2 * time.Second):
			t.Fatalf("dispatch did not reach the terminal event")
		}

		if !strings.Contains(buf.String(), "SYSTEM: AI Core successfully engaged.") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}
