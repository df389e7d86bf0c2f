// Package state holds the game's event-processing core: an immutable
// GameState and a pure reducer that consumes events and returns a new
// state plus requested side effects. Nothing in this package performs
// I/O; the dispatcher owns timers and network calls and feeds their
// completions back in as events.
package state

import (
	"github.com/jwebster45206/tilequest/pkg/action"
	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/inventory"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// GameState is the root aggregate. Exactly one of navigating
// (Chat == nil) and in-dialog (Chat != nil) holds at any time.
// Splash is an ephemeral overlay; empty means none.
type GameState struct {
	Player    world.Position
	Chat      *ChatWindow
	Inventory inventory.Inventory
	Splash    string
}

// NewGameState builds the session-start state from static config.
func NewGameState(cfg *world.Config) GameState {
	inv := inventory.New(cfg.MaxSlots)
	for _, seed := range cfg.SeedInventory {
		inv = inv.Add(seed.ObjectID, seed.Quantity)
	}
	return GameState{
		Player:    cfg.Start,
		Inventory: inv,
	}
}

// HistoryEntry is one display-oriented record of the conversation:
// either a text turn (Role/Text set) or an action outcome (Action
// set). The log is append-only and never rewritten.
type HistoryEntry struct {
	Role     string
	Text     string
	Action   action.Action
	Accepted bool
}

// IsAction reports whether the entry records an action outcome.
func (e HistoryEntry) IsAction() bool {
	return e.Action != nil
}

// ChatWindow is the dialog-mode payload of GameState. Contents is the
// exact conversation log sent upstream on each chat request; History
// is the derived display log kept in lockstep with it.
type ChatWindow struct {
	NPCID    string
	Intro    string
	Contents []chat.Message
	History  []HistoryEntry
	Turn     TurnState
}

// clone copies the window and its logs so the previous state value
// stays untouched.
func (w *ChatWindow) clone() *ChatWindow {
	out := *w
	out.Contents = append([]chat.Message(nil), w.Contents...)
	out.History = append([]HistoryEntry(nil), w.History...)
	return &out
}

// TurnState is the sub-state machine governing whose turn it is
// within a dialog. Implementations form a sealed set.
type TurnState interface {
	isTurnState()
}

// UserTurn means the player is composing input.
type UserTurn struct {
	CurrentMessage string
}

// WaitingForAI means a chat request is in flight; no input is
// accepted except cancel-by-exit.
type WaitingForAI struct{}

// ConfirmingAction means the model requested a gated action and the
// player must answer y/n. Prompt and Warning are precomputed display
// text for the confirmation overlay.
type ConfirmingAction struct {
	Pending action.Action
	Prompt  string
	Warning string
}

// AnimatingBeforeEndChat means a terminal action resolved and a fixed
// delay runs before the dialog is forcibly closed.
type AnimatingBeforeEndChat struct{}

func (UserTurn) isTurnState()               {}
func (WaitingForAI) isTurnState()           {}
func (ConfirmingAction) isTurnState()       {}
func (AnimatingBeforeEndChat) isTurnState() {}
