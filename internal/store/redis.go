package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/politicard/politicard/internal/game"
)

const redisKeyPrefix = "politicard:game:"

// RedisStore persists games in Redis, one JSON value per game. A zero TTL
// keeps games forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(gameID string) string {
	return redisKeyPrefix + gameID
}

func (s *RedisStore) Load(ctx context.Context, gameID string) (*game.GameState, error) {
	data, err := s.client.Get(ctx, redisKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", gameID, err)
	}
	var gs game.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	return &gs, nil
}

func (s *RedisStore) Save(ctx context.Context, gs *game.GameState) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", gs.ID, err)
	}
	if err := s.client.Set(ctx, redisKey(gs.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", gs.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, gameID string) error {
	if err := s.client.Del(ctx, redisKey(gameID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", gameID, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return ids, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
