package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/tilequest/pkg/chat"
)

// transcriptTTL bounds how long a finished session's transcript is
// kept around.
const transcriptTTL = 24 * time.Hour

// RedisStore implements TranscriptStore using Redis lists.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ TranscriptStore = (*RedisStore)(nil)

// NewRedisStore creates a new Redis transcript store
func NewRedisStore(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisStore{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

func transcriptKey(sessionID uuid.UUID, npcID string) string {
	return "transcript:" + sessionID.String() + ":" + npcID
}

func (r *RedisStore) AppendExchange(ctx context.Context, sessionID uuid.UUID, npcID string, messages ...chat.Message) error {
	if len(messages) == 0 {
		return nil
	}
	key := transcriptKey(sessionID, npcID)

	values := make([]interface{}, 0, len(messages))
	for _, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript message: %w", err)
		}
		values = append(values, string(data))
	}

	if err := r.client.RPush(ctx, key, values...).Err(); err != nil {
		r.logger.Error("Failed to append transcript", "session", sessionID, "npc", npcID, "error", err)
		return fmt.Errorf("failed to append transcript: %w", err)
	}
	if err := r.client.Expire(ctx, key, transcriptTTL).Err(); err != nil {
		return fmt.Errorf("failed to set transcript expiry: %w", err)
	}
	return nil
}

func (r *RedisStore) GetTranscript(ctx context.Context, sessionID uuid.UUID, npcID string) ([]chat.Message, error) {
	key := transcriptKey(sessionID, npcID)

	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	messages := make([]chat.Message, 0, len(raw))
	for _, item := range raw {
		var msg chat.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
