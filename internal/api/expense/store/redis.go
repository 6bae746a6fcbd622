package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tatyana-kutkina/finance-bot/internal/entity"
	redisPkg "github.com/tatyana-kutkina/finance-bot/pkg/redis"
)

const dialogKeyPrefix = "dialog_state:"

// RedisStore shares dialog state across instances. The TTL reaps dialogs the
// user walked away from.
type RedisStore struct {
	client redisPkg.IRedis
	ttl    time.Duration
}

func NewRedisStore(client redisPkg.IRedis, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func dialogKey(userID string) string {
	return fmt.Sprintf("%s%s", dialogKeyPrefix, userID)
}

func (s *RedisStore) Get(ctx context.Context, userID string) (entity.DialogState, error) {
	raw, err := s.client.GetValue(ctx, dialogKey(userID))
	if err != nil {
		if errors.Is(err, redisPkg.ErrKeyNotFound) {
			return entity.DialogState{}, ErrStateNotFound
		}
		return entity.DialogState{}, err
	}

	var state entity.DialogState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return entity.DialogState{}, fmt.Errorf("corrupt dialog state for %s: %w", userID, err)
	}
	return state, nil
}

func (s *RedisStore) Put(ctx context.Context, state entity.DialogState) error {
	state.LastActivity = time.Now()

	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.SetValue(ctx, dialogKey(state.UserID), string(raw), s.ttl)
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.client.DeleteValue(ctx, dialogKey(userID))
}
