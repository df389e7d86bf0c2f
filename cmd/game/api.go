package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/tilequest/pkg/chat"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// postChat sends a dialog turn to the API. It always returns a
// well-formed ChatResponse: transport and decode failures are folded
// into Success=false so the event loop sees every completion.
func postChat(client *http.Client, baseURL string, req chat.ChatRequest) chat.ChatResponse {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return chat.ChatResponse{Error: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	resp, err := client.Post(
		baseURL+"/v1/chat",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return chat.ChatResponse{Error: "could not reach the game service"}
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chat.ChatResponse{Error: "failed to read response"}
	}

	var out chat.ChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return chat.ChatResponse{Error: fmt.Sprintf("unexpected response (status %d)", resp.StatusCode)}
	}
	return out
}
