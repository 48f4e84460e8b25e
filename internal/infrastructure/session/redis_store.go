package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the pooled client shared by the session store.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// RedisStore keeps variables in a hash "session:{id}" and the challenge
// token in "session:{id}:challenge". Both share the session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func varsKey(sessionID string) string      { return "session:" + sessionID }
func challengeKey(sessionID string) string { return "session:" + sessionID + ":challenge" }

func (s *RedisStore) Get(ctx context.Context, sessionID, key string, dest interface{}) (bool, error) {
	if sessionID == "" {
		return false, ErrEmptySessionID
	}

	raw, err := s.client.HGet(ctx, varsKey(sessionID), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("session decode %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID, key string, value interface{}) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session encode %s: %w", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, varsKey(sessionID), key, raw)
	pipe.Expire(ctx, varsKey(sessionID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.HDel(ctx, varsKey(sessionID), keys...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *RedisStore) IssueChallenge(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySessionID
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, challengeKey(sessionID), token, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("issue challenge: %w", err)
	}
	return token, nil
}

// ConsumeChallenge uses GETDEL so two concurrent submits cannot both win.
func (s *RedisStore) ConsumeChallenge(ctx context.Context, sessionID, presented string) (bool, error) {
	if sessionID == "" {
		return false, ErrEmptySessionID
	}

	stored, err := s.client.GetDel(ctx, challengeKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume challenge: %w", err)
	}

	return tokensEqual(stored, presented), nil
}
