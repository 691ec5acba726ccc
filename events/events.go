// Package events carries what the assistant is doing to whoever is watching:
// log lines, status text, the visual state and the final shutdown signal.
//
// Delivery is one way and never blocks the sender. When the buffer is full
// events are dropped and counted.
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type Kind int

const (
	KindLog Kind = iota
	KindStatus
	KindVisual
	KindTerminal
)

func (k Kind) String() string {
	switch k {
	case KindLog:
		return "log"
	case KindStatus:
		return "status"
	case KindVisual:
		return "visual"
	case KindTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

type Sender string

const (
	SenderJarvis      Sender = "JARVIS"
	SenderUser        Sender = "USER"
	SenderSystem      Sender = "SYSTEM"
	SenderSystemError Sender = "SYSTEM_ERROR"
)

type VisualState string

const (
	VisualIdle      VisualState = "idle"
	VisualListening VisualState = "listening"
	VisualSpeaking  VisualState = "speaking"
)

type Event struct {
	Kind   Kind
	Sender Sender
	Text   string
	Visual VisualState
	Time   time.Time
}

const DefaultBufferSize = 256

type Bus struct {
	mu      sync.Mutex
	ch      chan Event
	closed  bool
	dropped atomic.Uint64
	now     func() time.Time
}

func NewBus(size int) *Bus {
	if size < 1 {
		size = DefaultBufferSize
	}

	return &Bus{
		ch:  make(chan Event, size),
		now: time.Now,
	}
}

// Events is closed after the terminal event.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Dropped reports how many events did not fit in the buffer.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Bus) Log(sender Sender, text string) {
	b.publish(Event{Kind: KindLog, Sender: sender, Text: text})
}

func (b *Bus) Status(text string) {
	b.publish(Event{Kind: KindStatus, Text: text})
}

func (b *Bus) Visual(state VisualState) {
	b.publish(Event{Kind: KindVisual, Visual: state})
}

// Terminal offers the terminal event and closes the channel. Only the first
// call has an effect.
func (b *Bus) Terminal() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.sendLocked(Event{Kind: KindTerminal})
	b.closed = true
	close(b.ch)
}

func (b *Bus) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.sendLocked(e)
}

func (b *Bus) sendLocked(e Event) {
	e.Time = b.now()

	select {
	case b.ch <- e:
	default:
		b.dropped.Add(1)
	}
}

// Observer is the presentation side. Its methods are called from the
// goroutine running Dispatch, never from the assistant.
type Observer interface {
	OnLog(sender Sender, text string)
	OnStatus(text string)
	OnVisualState(state VisualState)
	OnTerminal()
}

// Dispatch feeds events to obs until the channel is closed or ctx is done.
// OnTerminal is called exactly once when the channel closes, even if the
// terminal event itself was dropped.
func Dispatch(ctx context.Context, ch <-chan Event, obs Observer) {
	terminated := false

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				if !terminated {
					obs.OnTerminal()
				}

				return
			}

			switch e.Kind {
			case KindLog:
				obs.OnLog(e.Sender, e.Text)
			case KindStatus:
				obs.OnStatus(e.Text)
			case KindVisual:
				obs.OnVisualState(e.Visual)
			case KindTerminal:
				if !terminated {
					terminated = true
					obs.OnTerminal()
				}
			}
		}
	}
}
