package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/tilequest/pkg/chat"
)

// MockStore is an in-memory TranscriptStore for testing
type MockStore struct {
	AppendExchangeFunc func(ctx context.Context, sessionID uuid.UUID, npcID string, messages ...chat.Message) error
	PingFunc           func(ctx context.Context) error

	transcripts map[string][]chat.Message
	mu          sync.Mutex
}

var _ TranscriptStore = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		transcripts: make(map[string][]chat.Message),
	}
}

func (m *MockStore) AppendExchange(ctx context.Context, sessionID uuid.UUID, npcID string, messages ...chat.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppendExchangeFunc != nil {
		return m.AppendExchangeFunc(ctx, sessionID, npcID, messages...)
	}

	key := transcriptKey(sessionID, npcID)
	m.transcripts[key] = append(m.transcripts[key], messages...)
	return nil
}

func (m *MockStore) GetTranscript(ctx context.Context, sessionID uuid.UUID, npcID string) ([]chat.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := transcriptKey(sessionID, npcID)
	out := make([]chat.Message, len(m.transcripts[key]))
	copy(out, m.transcripts[key])
	return out, nil
}

func (m *MockStore) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockStore) Close() error {
	return nil
}
