package expenseService

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	expenseRepository "github.com/tatyana-kutkina/finance-bot/internal/api/expense/repository"
	"github.com/tatyana-kutkina/finance-bot/internal/entity"
)

func TestGetTransactionsPagination(t *testing.T) {
	repo := newFakeRepository()
	repo.users.users[testExternalID] = entity.User{ID: "user-1", ExternalID: testExternalID}
	repo.transactions.transactions = []entity.Transaction{{ID: "tx-1", UserID: "user-1"}}
	repo.transactions.total = 25
	svc, _ := newTestService(&fakeChat{}, repo, &fakeTranscriber{})

	response, err := svc.GetTransactions(context.Background(), testExternalID, 3, 10)

	require.NoError(t, err)
	assert.Equal(t, 10, repo.transactions.lastLimit)
	assert.Equal(t, 20, repo.transactions.lastOffset)
	assert.Equal(t, 25, response.Total)
	require.Len(t, response.Transactions, 1)
}

func TestGetTransactionsUnknownUser(t *testing.T) {
	svc, _ := newTestService(&fakeChat{}, newFakeRepository(), &fakeTranscriber{})

	_, err := svc.GetTransactions(context.Background(), "tg:nobody", 1, 10)

	assert.ErrorIs(t, err, expense.ErrUserNotFound)
}

func TestGetWeekStats(t *testing.T) {
	repo := newFakeRepository()
	repo.users.users[testExternalID] = entity.User{ID: "user-1", ExternalID: testExternalID}
	repo.transactions.totals = []expenseRepository.CategoryTotal{
		{Category: "Продукты", Total: decimal.RequireFromString("5231.5")},
		{Category: "Кофе", Total: decimal.RequireFromString("900")},
	}
	svc, _ := newTestService(&fakeChat{}, repo, &fakeTranscriber{})

	baseDate := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)
	response, err := svc.GetWeekStats(context.Background(), testExternalID, baseDate)

	require.NoError(t, err)
	assert.Equal(t, "2026-08-25", response.From)
	assert.Equal(t, "2026-08-31", response.To)
	assert.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), repo.transactions.statsFrom)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), repo.transactions.statsTo)

	require.Len(t, response.Stats, 2)
	assert.Equal(t, expense.WeeklyCategoryStat{Category: "Продукты", Total: "5231.50"}, response.Stats[0])
	assert.Equal(t, expense.WeeklyCategoryStat{Category: "Кофе", Total: "900.00"}, response.Stats[1])
}
