package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/tilequest/internal/services"
	"github.com/jwebster45206/tilequest/internal/storage"
	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// ChatHandler handles dialog turn requests from the game client
type ChatHandler struct {
	world      *world.Config
	llmService services.LLMService
	store      storage.TranscriptStore
	accessKey  string
	logger     *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(w *world.Config, llmService services.LLMService, store storage.TranscriptStore, accessKey string, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		world:      w,
		llmService: llmService,
		store:      store,
		accessKey:  accessKey,
		logger:     logger,
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	response := chat.ChatResponse{Error: msg}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding chat error response", "error", err)
	}
}

// ServeHTTP handles HTTP requests for chat
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Only allow POST method
	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for chat endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	// Parse request body
	var request chat.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body. Expected JSON with 'npcId' and 'contents' fields.")
		return
	}

	// Validate request
	if err := request.Validate(); err != nil {
		h.logger.Warn("Invalid chat request", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if subtle.ConstantTimeCompare([]byte(request.AccessKey), []byte(h.accessKey)) != 1 {
		h.logger.Warn("Rejected chat request with bad access key",
			"remote_addr", r.RemoteAddr)
		h.writeError(w, http.StatusUnauthorized, "Invalid access key.")
		return
	}

	npc, ok := h.world.NPCs[request.NPCID]
	if !ok {
		h.logger.Warn("Chat request for unknown NPC", "npc", request.NPCID)
		h.writeError(w, http.StatusNotFound, "Unknown NPC.")
		return
	}

	h.logger.Info("Chat turn",
		"session", request.SessionID,
		"npc", request.NPCID,
		"contents", len(request.Contents))

	// Generate response using LLM service
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	reply, err := h.llmService.Chat(ctx, npc, request.Contents)
	if err != nil {
		h.logger.Error("Error generating chat response", "error", err, "npc", request.NPCID)
		h.writeError(w, http.StatusInternalServerError, "Failed to generate response. Please try again.")
		return
	}

	// Transcript logging is best-effort; a storage failure must not
	// fail the player's turn.
	last := request.Contents[len(request.Contents)-1]
	if err := h.store.AppendExchange(ctx, request.SessionID, request.NPCID, last, reply); err != nil {
		h.logger.Warn("Failed to record transcript", "error", err, "session", request.SessionID)
	}

	// Return successful response
	w.WriteHeader(http.StatusOK)
	response := chat.ChatResponse{
		Success:  true,
		Response: &chat.ChatPayload{Content: reply},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding chat response", "error", err)
	}
}
