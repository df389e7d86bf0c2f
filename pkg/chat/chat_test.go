package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request ChatRequest
		wantErr string
	}{
		{
			name: "valid request",
			request: ChatRequest{
				AccessKey: "secret",
				NPCID:     "guard",
				Contents:  []Message{TextMessage(RoleUser, "hello")},
			},
		},
		{
			name: "missing access key",
			request: ChatRequest{
				NPCID:    "guard",
				Contents: []Message{TextMessage(RoleUser, "hello")},
			},
			wantErr: "accessKey is required",
		},
		{
			name: "missing npc id",
			request: ChatRequest{
				AccessKey: "secret",
				Contents:  []Message{TextMessage(RoleUser, "hello")},
			},
			wantErr: "npcId is required",
		},
		{
			name: "empty contents",
			request: ChatRequest{
				AccessKey: "secret",
				NPCID:     "guard",
			},
			wantErr: "contents cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}

func TestMessage_Text(t *testing.T) {
	m := Message{
		Role: RoleModel,
		Parts: []Part{
			{Text: "Welcome, "},
			{FunctionCall: &FunctionCall{Name: "open_door"}},
			{Text: "traveler."},
		},
	}
	assert.Equal(t, "Welcome, traveler.", m.Text())
	assert.Empty(t, TextMessage(RoleUser, "").Text())
}

func TestMessage_FunctionCall(t *testing.T) {
	assert.Nil(t, TextMessage(RoleModel, "just text").FunctionCall())

	m := Message{
		Role: RoleModel,
		Parts: []Part{
			{Text: "Sold!"},
			{FunctionCall: &FunctionCall{Name: "sell_item", Args: map[string]any{"object_id": "rope", "price": float64(10)}}},
		},
	}
	fc := m.FunctionCall()
	require.NotNil(t, fc)
	assert.Equal(t, "sell_item", fc.Name)
	assert.Equal(t, "rope", fc.Args["object_id"])
}

func TestMessage_WireFormat(t *testing.T) {
	m := FunctionResponseMessage(FunctionResponse{
		Name:     "sell_item",
		Response: map[string]any{"result": "accept"},
	})
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","parts":[{"functionResponse":{"name":"sell_item","response":{"result":"accept"}}}]}`, string(data))
}
