package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/tilequest/pkg/chat"
)

// TranscriptStore records dialog exchanges per session and NPC. This
// is an observability log for reviewing conversations after the fact;
// game state itself is never persisted and the client never reads the
// transcript back into play.
type TranscriptStore interface {
	// AppendExchange appends messages to the session's transcript
	// with the given NPC.
	AppendExchange(ctx context.Context, sessionID uuid.UUID, npcID string, messages ...chat.Message) error

	// GetTranscript returns the full transcript in append order.
	GetTranscript(ctx context.Context, sessionID uuid.UUID, npcID string) ([]chat.Message, error)

	// Ping tests the store connection
	Ping(ctx context.Context) error

	// Close closes the store connection
	Close() error
}
