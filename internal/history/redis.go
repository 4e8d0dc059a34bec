package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists each history as one JSON blob under history:<userID>.
// This is the production backend: durable across restarts and shared by all
// replicas.
type RedisStore struct {
	client  *redis.Client
	persona string
}

func NewRedisStore(ctx context.Context, redisURL, persona string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client, persona: persona}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func historyKey(userID string) string {
	return fmt.Sprintf("history:%s", userID)
}

// Load fetches the history blob. A missing key is not an error: the seed is
// written first and then returned, so a crash right after first contact
// still leaves a well-formed object behind.
func (s *RedisStore) Load(ctx context.Context, userID string) (History, error) {
	data, err := s.client.Get(ctx, historyKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		seed := Seed(s.persona)
		if err := s.Save(ctx, userID, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return h, nil
}

// Save overwrites the full history. No TTL: retention is the operator's
// concern, matching the source system's unbounded growth.
func (s *RedisStore) Save(ctx context.Context, userID string, h History) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.client.Set(ctx, historyKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
