package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// record is the persisted shape: only the item list, plus a schema version.
type record struct {
	State struct {
		Items []Item `json:"items"`
	} `json:"state"`
	Version int `json:"version"`
}

const recordVersion = 0

// RedisStorage stores each cart as one JSON string. A zero TTL keeps
// records forever.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]Item, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeRecord(data)
}

func (s *RedisStorage) Save(ctx context.Context, key string, items []Item) error {
	data, err := encodeRecord(items)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func encodeRecord(items []Item) ([]byte, error) {
	var rec record
	rec.State.Items = items
	if rec.State.Items == nil {
		rec.State.Items = []Item{}
	}
	rec.Version = recordVersion

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) ([]Item, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return rec.State.Items, nil
}
