// Package console renders assistant events to a terminal.
package console

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"jarvis-assistant/events"
	"jarvis-assistant/logging"
)

var senderColors = map[events.Sender]lipgloss.Color{
	events.SenderJarvis:      lipgloss.Color("#00f0ff"),
	events.SenderUser:        lipgloss.Color("#a0a0ff"),
	events.SenderSystem:      lipgloss.Color("#909090"),
	events.SenderSystemError: lipgloss.Color("#ff5050"),
}

const fallbackColor = lipgloss.Color("#f0f0f0")

// Console is an events.Observer writing one line per log event and one per
// status change.
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
	senders  map[events.Sender]lipgloss.Style
	fallback lipgloss.Style
	status   lipgloss.Style

	lastStatus string
	done       chan struct{}
	once       sync.Once
	logger     *slog.Logger
}

func New(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)

	senders := make(map[events.Sender]lipgloss.Style, len(senderColors))
	for sender, color := range senderColors {
		senders[sender] = r.NewStyle().Bold(true).Foreground(color)
	}

	return &Console{
		w:        w,
		renderer: r,
		senders:  senders,
		fallback: r.NewStyle().Bold(true).Foreground(fallbackColor),
		status:   r.NewStyle().Faint(true).Italic(true),
		done:     make(chan struct{}),
		logger:   logging.With("component", "console"),
	}
}

// Done is closed once the terminal event has been rendered.
func (c *Console) Done() <-chan struct{} {
	return c.done
}

func (c *Console) OnLog(sender events.Sender, text string) {
	style, ok := c.senders[sender]
	if !ok {
		style = c.fallback
	}

	c.printf("%s %s\n", style.Render(string(sender)+":"), text)
}

// OnStatus prints the status only when it changes.
func (c *Console) OnStatus(text string) {
	c.mu.Lock()
	changed := text != c.lastStatus
	c.lastStatus = text
	c.mu.Unlock()

	if changed {
		c.printf("%s\n", c.status.Render("· "+text))
	}
}

func (c *Console) OnVisualState(state events.VisualState) {
	c.logger.Debug("visual state", "state", state)
}

func (c *Console) OnTerminal() {
	c.once.Do(func() {
		c.printf("%s %s\n", c.senders[events.SenderSystem].Render(string(events.SenderSystem)+":"), "All systems offline.")
		close(c.done)
	})
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w, format, args...)
	if err != nil {
		c.logger.Debug("write failed", "err", err)
	}
}
