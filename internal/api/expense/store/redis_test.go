package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatyana-kutkina/finance-bot/internal/entity"
	redisPkg "github.com/tatyana-kutkina/finance-bot/pkg/redis"
)

type fakeRedis struct {
	values  map[string]string
	lastTTL time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) SetValue(_ context.Context, key, value string, expiration time.Duration) error {
	f.values[key] = value
	f.lastTTL = expiration
	return nil
}

func (f *fakeRedis) GetValue(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redisPkg.ErrKeyNotFound
	}
	return value, nil
}

func (f *fakeRedis) DeleteValue(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client := newFakeRedis()
	s := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	_, err := s.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrStateNotFound)

	state := entity.DialogState{
		UserID:  "user-1",
		Stage:   entity.StageAwaitingClarification,
		Retries: 1,
		Invalid: map[string]string{"currency": "UnknownCurrency"},
	}
	require.NoError(t, s.Put(ctx, state))
	assert.Contains(t, client.values, "dialog_state:user-1")
	assert.Equal(t, time.Hour, client.lastTTL)

	got, err := s.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageAwaitingClarification, got.Stage)
	assert.Equal(t, map[string]string{"currency": "UnknownCurrency"}, got.Invalid)

	require.NoError(t, s.Delete(ctx, "user-1"))
	_, err = s.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	client := newFakeRedis()
	client.values["dialog_state:user-1"] = "{not json"
	s := NewRedisStore(client, time.Hour)

	_, err := s.Get(context.Background(), "user-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStoreDefaultsTTL(t *testing.T) {
	client := newFakeRedis()
	s := NewRedisStore(client, 0)

	require.NoError(t, s.Put(context.Background(), entity.DialogState{UserID: "user-1"}))

	assert.Equal(t, 24*time.Hour, client.lastTTL)
}
