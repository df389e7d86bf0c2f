package state

import (
	"unicode"

	"github.com/jwebster45206/tilequest/pkg/action"
	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// handleDialogKey routes a key press through the dialog's turn state
// machine. Escape exits the dialog from every state except
// confirmation, where only y/n are recognized.
func handleDialogKey(cfg *world.Config, gs GameState, key string) (GameState, []Effect) {
	switch turn := gs.Chat.Turn.(type) {
	case UserTurn:
		if key == KeyEscape {
			gs.Chat = nil
			return gs, nil
		}
		return handleComposeKey(gs, turn, key)
	case ConfirmingAction:
		return handleConfirmKey(cfg, gs, turn, key)
	default: // WaitingForAI, AnimatingBeforeEndChat
		if key == KeyEscape {
			gs.Chat = nil
		}
		return gs, nil
	}
}

func handleComposeKey(gs GameState, turn UserTurn, key string) (GameState, []Effect) {
	switch {
	case key == KeyEnter:
		if turn.CurrentMessage == "" {
			return gs, nil
		}
		cw := gs.Chat.clone()
		cw.Contents = append(cw.Contents, chat.TextMessage(chat.RoleUser, turn.CurrentMessage))
		cw.History = append(cw.History, HistoryEntry{Role: chat.RoleUser, Text: turn.CurrentMessage})
		cw.Turn = WaitingForAI{}
		gs.Chat = cw
		return gs, []Effect{SendChatRequest{}}

	case key == KeyBackspace:
		if turn.CurrentMessage == "" {
			return gs, nil
		}
		cw := gs.Chat.clone()
		runes := []rune(turn.CurrentMessage)
		cw.Turn = UserTurn{CurrentMessage: string(runes[:len(runes)-1])}
		gs.Chat = cw
		return gs, nil

	case isPrintable(key):
		cw := gs.Chat.clone()
		cw.Turn = UserTurn{CurrentMessage: turn.CurrentMessage + key}
		gs.Chat = cw
		return gs, nil
	}
	return gs, nil
}

func isPrintable(key string) bool {
	runes := []rune(key)
	return len(runes) == 1 && (unicode.IsPrint(runes[0]))
}

func handleConfirmKey(cfg *world.Config, gs GameState, turn ConfirmingAction, key string) (GameState, []Effect) {
	switch key {
	case "y":
		cw := gs.Chat.clone()
		pos, inv, resp := action.Perform(cfg, gs.Player, gs.Inventory, turn.Pending)
		gs.Player, gs.Inventory = pos, inv
		cw.Contents = append(cw.Contents, chat.FunctionResponseMessage(resp))
		cw.History = append(cw.History, HistoryEntry{Action: turn.Pending, Accepted: true})
		if action.ExitsDialog(turn.Pending) {
			cw.Turn = AnimatingBeforeEndChat{}
			gs.Chat = cw
			return gs, []Effect{StartTimer{Duration: EndChatDelay}}
		}
		cw.Turn = WaitingForAI{}
		gs.Chat = cw
		return gs, []Effect{SendChatRequest{}}

	case "n":
		cw := gs.Chat.clone()
		cw.Contents = append(cw.Contents, chat.FunctionResponseMessage(action.Rejection(turn.Pending)))
		cw.History = append(cw.History, HistoryEntry{Action: turn.Pending, Accepted: false})
		cw.Turn = WaitingForAI{}
		gs.Chat = cw
		return gs, []Effect{SendChatRequest{}}
	}
	// Anything else is ignored while confirming.
	return gs, nil
}

// handleChatResponse applies a chat completion. Responses arriving
// outside WaitingForAI (dialog closed, turn moved on) are stale and
// dropped without effect.
func handleChatResponse(cfg *world.Config, gs GameState, resp chat.ChatResponse) (GameState, []Effect) {
	if gs.Chat == nil {
		return gs, nil
	}
	if _, ok := gs.Chat.Turn.(WaitingForAI); !ok {
		return gs, nil
	}

	// A failed request abandons the dialog. The player lands back in
	// navigation; no error detail is surfaced.
	if !resp.Success || resp.Response == nil {
		gs.Chat = nil
		return gs, nil
	}

	content := resp.Response.Content
	cw := gs.Chat.clone()
	cw.Contents = append(cw.Contents, content)
	if text := content.Text(); text != "" {
		cw.History = append(cw.History, HistoryEntry{Role: chat.RoleModel, Text: text})
	}

	fc := content.FunctionCall()
	if fc == nil {
		cw.Turn = UserTurn{}
		gs.Chat = cw
		return gs, nil
	}

	a := action.Parse(fc)
	if a == nil {
		// Unrecognized tool name: abandon the conversation.
		gs.Chat = nil
		return gs, nil
	}

	if needs, warning := action.NeedsConfirmation(cfg, gs.Inventory, a); needs {
		cw.Turn = ConfirmingAction{
			Pending: a,
			Prompt:  action.Describe(cfg, a),
			Warning: warning,
		}
		gs.Chat = cw
		return gs, nil
	}

	pos, inv, fr := action.Perform(cfg, gs.Player, gs.Inventory, a)
	gs.Player, gs.Inventory = pos, inv
	cw.Contents = append(cw.Contents, chat.FunctionResponseMessage(fr))
	cw.History = append(cw.History, HistoryEntry{Action: a, Accepted: true})
	if action.ExitsDialog(a) {
		cw.Turn = AnimatingBeforeEndChat{}
		gs.Chat = cw
		return gs, []Effect{StartTimer{Duration: EndChatDelay}}
	}
	cw.Turn = WaitingForAI{}
	gs.Chat = cw
	return gs, []Effect{SendChatRequest{}}
}

// handleTimerElapsed closes the dialog after the end-chat animation.
// A timer firing in any other turn state is stale and ignored.
func handleTimerElapsed(gs GameState) GameState {
	if gs.Chat == nil {
		return gs
	}
	if _, ok := gs.Chat.Turn.(AnimatingBeforeEndChat); !ok {
		return gs
	}
	gs.Chat = nil
	return gs
}
