package state

import (
	"time"

	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// Key identifiers as delivered by the dispatcher. Any other
// single-rune printable key is treated as message composition input.
const (
	KeyEnter     = "enter"
	KeyEscape    = "esc"
	KeyBackspace = "backspace"
)

// EndChatDelay is how long the closing animation runs after a
// terminal action before the dialog is dismissed.
const EndChatDelay = 2 * time.Second

// Event is an input to the reducer. Implementations form a sealed
// set: key presses, chat completions, and timer elapses.
type Event interface {
	isEvent()
}

// KeyPressed carries a single key identifier.
type KeyPressed struct {
	Key string
}

// ChatResponseReceived carries the outcome of a chat request. The
// dispatcher must deliver every completion, including failures and
// responses that arrive after the dialog has moved on; the reducer's
// own guards discard stale ones.
type ChatResponseReceived struct {
	Response chat.ChatResponse
}

// TimerElapsed fires when a requested timer completes.
type TimerElapsed struct{}

func (KeyPressed) isEvent()           {}
func (ChatResponseReceived) isEvent() {}
func (TimerElapsed) isEvent()         {}

// Effect is a declarative side-effect request returned by the
// reducer. The dispatcher interprets effects after committing the new
// state; SendChatRequest reads the then-current chat window.
type Effect interface {
	isEffect()
}

// StartTimer asks the dispatcher to schedule a TimerElapsed event.
type StartTimer struct {
	Duration time.Duration
}

// SendChatRequest asks the dispatcher to issue a chat request built
// from the committed state's chat window (NPCID and Contents).
type SendChatRequest struct{}

func (StartTimer) isEffect()      {}
func (SendChatRequest) isEffect() {}

// directionForKey maps arrow and WASD keys to movement directions.
func directionForKey(key string) (world.Direction, bool) {
	switch key {
	case "up", "w":
		return world.North, true
	case "down", "s":
		return world.South, true
	case "left", "a":
		return world.West, true
	case "right", "d":
		return world.East, true
	}
	return "", false
}
