package state

import (
	"github.com/jwebster45206/tilequest/pkg/world"
)

// HandleEvent is the single entry point of the core. It dispatches an
// event against the current state and returns the replacement state
// plus any side effects the dispatcher should perform. It never
// blocks and never performs I/O.
func HandleEvent(cfg *world.Config, gs GameState, ev Event) (GameState, []Effect) {
	switch e := ev.(type) {
	case KeyPressed:
		return handleKey(cfg, gs, e.Key)
	case ChatResponseReceived:
		return handleChatResponse(cfg, gs, e.Response)
	case TimerElapsed:
		return handleTimerElapsed(gs), nil
	default:
		return gs, nil
	}
}

func handleKey(cfg *world.Config, gs GameState, key string) (GameState, []Effect) {
	// A raised splash consumes the next key as its acknowledgment.
	if gs.Splash != "" {
		gs.Splash = ""
		return gs, nil
	}
	if gs.Chat != nil {
		return handleDialogKey(cfg, gs, key)
	}
	if dir, ok := directionForKey(key); ok {
		return HandleMovement(cfg, gs, dir), nil
	}
	return gs, nil
}
