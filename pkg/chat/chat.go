package chat

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"  // the player
	RoleModel = "model" // the NPC
)

// FunctionCall is a tool invocation requested by the model.
// Args are loosely typed; the action resolver interprets them.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse reports the outcome of a tool invocation back to
// the model on the next request.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response,omitempty"`
}

// Part is one piece of a message. Exactly one field is set.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// Message is a single conversation turn in the wire format the
// upstream generative API expects.
type Message struct {
	Role  string `json:"role"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// TextMessage builds a single-part text message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Parts: []Part{{Text: text}}}
}

// FunctionResponseMessage wraps a tool outcome as a user-role turn,
// per the upstream API's convention for function responses.
func FunctionResponseMessage(fr FunctionResponse) Message {
	return Message{Role: RoleUser, Parts: []Part{{FunctionResponse: &fr}}}
}

// Text concatenates the text parts of the message.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		out += p.Text
	}
	return out
}

// FunctionCall returns the first function call part, or nil.
func (m Message) FunctionCall() *FunctionCall {
	for _, p := range m.Parts {
		if p.FunctionCall != nil {
			return p.FunctionCall
		}
	}
	return nil
}

// ChatRequest is a dialog turn sent by the game client to the API.
// Contents is the full conversation log for the current dialog.
type ChatRequest struct {
	AccessKey string    `json:"accessKey"`
	SessionID uuid.UUID `json:"sessionId,omitempty"`
	NPCID     string    `json:"npcId"`
	Contents  []Message `json:"contents"`
}

func (r *ChatRequest) Validate() error {
	if r.AccessKey == "" {
		return fmt.Errorf("accessKey is required")
	}
	if r.NPCID == "" {
		return fmt.Errorf("npcId is required")
	}
	if len(r.Contents) == 0 {
		return fmt.Errorf("contents cannot be empty")
	}
	return nil
}

// ChatPayload wraps the model's reply.
type ChatPayload struct {
	Content Message `json:"content"`
}

// ChatResponse is the API's answer to a ChatRequest. On failure the
// client receives Success=false and a terse Error; internals are
// never exposed.
type ChatResponse struct {
	Success  bool         `json:"success"`
	Response *ChatPayload `json:"response,omitempty"`
	Error    string       `json:"error,omitempty"`
}
