package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// MockLLM is a mock implementation of LLMService for testing
type MockLLM struct {
	ChatFunc func(ctx context.Context, npc world.NPC, contents []chat.Message) (chat.Message, error)

	// Track calls for testing
	ChatCalls []ChatCall

	mu sync.Mutex // protects all fields above
}

type ChatCall struct {
	NPCID    string
	Contents []chat.Message
}

var _ LLMService = (*MockLLM)(nil)

// NewMockLLM creates a new mock LLM service
func NewMockLLM() *MockLLM {
	return &MockLLM{
		ChatCalls: make([]ChatCall, 0),
	}
}

func (m *MockLLM) Chat(ctx context.Context, npc world.NPC, contents []chat.Message) (chat.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCalls = append(m.ChatCalls, ChatCall{NPCID: npc.ID, Contents: contents})

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, npc, contents)
	}

	// Default behavior - a plain text reply
	return chat.TextMessage(chat.RoleModel, "Mock response"), nil
}

func (m *MockLLM) Close() error {
	return nil
}

// SetChatError sets up the mock to return an error on Chat
func (m *MockLLM) SetChatError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, npc world.NPC, contents []chat.Message) (chat.Message, error) {
		return chat.Message{}, err
	}
}

// SetChatResponse sets up the mock to return a fixed message
func (m *MockLLM) SetChatResponse(msg chat.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, npc world.NPC, contents []chat.Message) (chat.Message, error) {
		return msg, nil
	}
}

// GetChatCalls returns a copy of the call tracking data in a
// thread-safe way
func (m *MockLLM) GetChatCalls() []ChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ChatCall, len(m.ChatCalls))
	copy(calls, m.ChatCalls)
	return calls
}
