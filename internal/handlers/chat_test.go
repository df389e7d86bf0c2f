package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/tilequest/internal/services"
	"github.com/jwebster45206/tilequest/internal/storage"
	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/world"
)

const testAccessKey = "test-access-key"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func testWorld() *world.Config {
	return &world.Config{
		NPCs: map[string]world.NPC{
			"guard": {
				ID:           "guard",
				Name:         "town guard",
				SystemPrompt: "You are a gruff town guard.",
				Tools:        []string{"open_door"},
			},
		},
	}
}

func validRequest() chat.ChatRequest {
	return chat.ChatRequest{
		AccessKey: testAccessKey,
		SessionID: uuid.New(),
		NPCID:     "guard",
		Contents: []chat.Message{
			chat.TextMessage(chat.RoleUser, "let me through"),
		},
	}
}

func TestChatHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           interface{}
		mockSetup      func(*services.MockLLM)
		expectedStatus int
		expectedError  string
		expectedText   string
	}{
		{
			name:   "successful chat turn",
			method: http.MethodPost,
			body:   validRequest(),
			mockSetup: func(m *services.MockLLM) {
				m.SetChatResponse(chat.TextMessage(chat.RoleModel, "None shall pass."))
			},
			expectedStatus: http.StatusOK,
			expectedText:   "None shall pass.",
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			body:           nil,
			mockSetup:      func(m *services.MockLLM) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed. Only POST is supported.",
		},
		{
			name:           "invalid JSON body",
			method:         http.MethodPost,
			body:           "invalid json",
			mockSetup:      func(m *services.MockLLM) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body. Expected JSON with 'npcId' and 'contents' fields.",
		},
		{
			name:   "empty contents",
			method: http.MethodPost,
			body: chat.ChatRequest{
				AccessKey: testAccessKey,
				NPCID:     "guard",
			},
			mockSetup:      func(m *services.MockLLM) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "contents cannot be empty",
		},
		{
			name:   "wrong access key",
			method: http.MethodPost,
			body: func() chat.ChatRequest {
				req := validRequest()
				req.AccessKey = "wrong"
				return req
			}(),
			mockSetup:      func(m *services.MockLLM) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid access key.",
		},
		{
			name:   "unknown NPC",
			method: http.MethodPost,
			body: func() chat.ChatRequest {
				req := validRequest()
				req.NPCID = "dragon"
				return req
			}(),
			mockSetup:      func(m *services.MockLLM) {},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Unknown NPC.",
		},
		{
			name:   "LLM error",
			method: http.MethodPost,
			body:   validRequest(),
			mockSetup: func(m *services.MockLLM) {
				m.SetChatError(errors.New("upstream exploded"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to generate response. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLLM := services.NewMockLLM()
			tt.mockSetup(mockLLM)

			handler := NewChatHandler(testWorld(), mockLLM, storage.NewMockStore(), testAccessKey, testLogger())

			var body bytes.Buffer
			if s, ok := tt.body.(string); ok {
				body.WriteString(s)
			} else if tt.body != nil {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.body))
			}

			req := httptest.NewRequest(tt.method, "/v1/chat", &body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp chat.ChatResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			if tt.expectedError != "" {
				assert.False(t, resp.Success)
				assert.Equal(t, tt.expectedError, resp.Error)
				assert.Nil(t, resp.Response)
			} else {
				assert.True(t, resp.Success)
				require.NotNil(t, resp.Response)
				assert.Equal(t, tt.expectedText, resp.Response.Content.Text())
			}
		})
	}
}

func TestChatHandler_PassesNPCAndContents(t *testing.T) {
	mockLLM := services.NewMockLLM()
	handler := NewChatHandler(testWorld(), mockLLM, storage.NewMockStore(), testAccessKey, testLogger())

	req := validRequest()
	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(req))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat", &body))
	require.Equal(t, http.StatusOK, rec.Code)

	calls := mockLLM.GetChatCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "guard", calls[0].NPCID)
	require.Len(t, calls[0].Contents, 1)
	assert.Equal(t, "let me through", calls[0].Contents[0].Text())
}

func TestChatHandler_RecordsTranscript(t *testing.T) {
	mockLLM := services.NewMockLLM()
	mockLLM.SetChatResponse(chat.TextMessage(chat.RoleModel, "None shall pass."))
	store := storage.NewMockStore()
	handler := NewChatHandler(testWorld(), mockLLM, store, testAccessKey, testLogger())

	req := validRequest()
	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(req))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat", &body))
	require.Equal(t, http.StatusOK, rec.Code)

	transcript, err := store.GetTranscript(context.Background(), req.SessionID, "guard")
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, "let me through", transcript[0].Text())
	assert.Equal(t, "None shall pass.", transcript[1].Text())
}

func TestChatHandler_TranscriptFailureDoesNotFailTurn(t *testing.T) {
	mockLLM := services.NewMockLLM()
	store := storage.NewMockStore()
	store.AppendExchangeFunc = func(ctx context.Context, sessionID uuid.UUID, npcID string, messages ...chat.Message) error {
		return errors.New("redis down")
	}
	handler := NewChatHandler(testWorld(), mockLLM, store, testAccessKey, testLogger())

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(validRequest()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat", &body))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp chat.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}
