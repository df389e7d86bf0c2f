package services

import (
	"context"

	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// LLMService defines the interface for generating NPC dialog.
type LLMService interface {
	// Chat generates the NPC's next turn from the full conversation
	// log. The NPC supplies the system prompt and tool declarations.
	Chat(ctx context.Context, npc world.NPC, contents []chat.Message) (chat.Message, error)

	// Close releases the underlying client.
	Close() error
}
