// Package store keeps per-user dialog state behind a small keyed interface so
// the state machine can run against an in-memory map in one process or a
// shared Redis when several instances handle the same bot.
package store

import (
	"context"
	"errors"

	"github.com/tatyana-kutkina/finance-bot/internal/entity"
)

var ErrStateNotFound = errors.New("dialog state not found")

type DialogStore interface {
	// Get returns ErrStateNotFound when the user has no pending dialog.
	Get(ctx context.Context, userID string) (entity.DialogState, error)
	Put(ctx context.Context, state entity.DialogState) error
	Delete(ctx context.Context, userID string) error
}
