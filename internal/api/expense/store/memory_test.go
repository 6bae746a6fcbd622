package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatyana-kutkina/finance-bot/internal/entity"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrStateNotFound)

	state := entity.DialogState{
		UserID:  "user-1",
		Stage:   entity.StageAwaitingClarification,
		Retries: 2,
		Missing: []string{"amount"},
	}
	require.NoError(t, s.Put(ctx, state))

	got, err := s.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageAwaitingClarification, got.Stage)
	assert.Equal(t, 2, got.Retries)
	assert.Equal(t, []string{"amount"}, got.Missing)
	assert.False(t, got.LastActivity.IsZero())

	require.NoError(t, s.Delete(ctx, "user-1"))
	_, err = s.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestMemoryStoreDeleteMissingIsNoop(t *testing.T) {
	s := NewMemoryStore()

	assert.NoError(t, s.Delete(context.Background(), "never-seen"))
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, entity.DialogState{UserID: "user-1", Retries: 1}))
	require.NoError(t, s.Put(ctx, entity.DialogState{UserID: "user-2", Retries: 3}))
	require.NoError(t, s.Delete(ctx, "user-1"))

	got, err := s.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Retries)
}
