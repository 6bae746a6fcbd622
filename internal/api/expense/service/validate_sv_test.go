package expenseService

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatyana-kutkina/finance-bot/internal/entity"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateNormalizesValidCandidate(t *testing.T) {
	svc, _ := newTestService(&fakeChat{}, newFakeRepository(), &fakeTranscriber{})

	occurred := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	result := svc.validate(entity.CandidateTransaction{
		Amount:     decPtr("5000"),
		Category:   strPtr("  продукты "),
		Currency:   strPtr("rub"),
		OccurredOn: &occurred,
		RawText:    "Купил продукты на 5000",
	})

	require.True(t, result.Valid())
	require.NotNil(t, result.Transaction)
	assert.True(t, result.Transaction.Amount.Equal(decimal.RequireFromString("5000")))
	assert.Equal(t, "Продукты", result.Transaction.Category)
	assert.Equal(t, "RUB", result.Transaction.Currency)
	assert.Equal(t, occurred, result.Transaction.OccurredOn)
	assert.Equal(t, "Купил продукты на 5000", result.Transaction.RawText)
}

func TestValidateRoundsAmountHalfToEven(t *testing.T) {
	svc, _ := newTestService(&fakeChat{}, newFakeRepository(), &fakeTranscriber{})

	tests := []struct {
		amount string
		want   string
	}{
		{"2.345", "2.34"},
		{"2.355", "2.36"},
		{"199.999", "200"},
		{"100", "100"},
	}

	for _, tc := range tests {
		result := svc.validate(entity.CandidateTransaction{
			Amount:   decPtr(tc.amount),
			Category: strPtr("кофе"),
		})
		require.True(t, result.Valid(), "amount %s", tc.amount)
		assert.True(t, result.Transaction.Amount.Equal(decimal.RequireFromString(tc.want)),
			"amount %s rounded to %s, want %s", tc.amount, result.Transaction.Amount, tc.want)
	}
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	svc, _ := newTestService(&fakeChat{}, newFakeRepository(), &fakeTranscriber{})

	tests := []struct {
		name        string
		candidate   entity.CandidateTransaction
		wantMissing []string
		wantInvalid map[string]string
	}{
		{
			name:        "everything absent",
			candidate:   entity.CandidateTransaction{},
			wantMissing: []string{"amount", "category"},
		},
		{
			name: "zero amount",
			candidate: entity.CandidateTransaction{
				Amount:   decPtr("0"),
				Category: strPtr("такси"),
			},
			wantInvalid: map[string]string{"amount": "NotPositive"},
		},
		{
			name: "negative amount",
			candidate: entity.CandidateTransaction{
				Amount:   decPtr("-20"),
				Category: strPtr("такси"),
			},
			wantInvalid: map[string]string{"amount": "NotPositive"},
		},
		{
			name: "unparseable amount",
			candidate: entity.CandidateTransaction{
				AmountUnparsed: true,
				Category:       strPtr("такси"),
			},
			wantInvalid: map[string]string{"amount": "NotPositive"},
		},
		{
			name: "unknown currency",
			candidate: entity.CandidateTransaction{
				Amount:   decPtr("100"),
				Category: strPtr("такси"),
				Currency: strPtr("XXX"),
			},
			wantInvalid: map[string]string{"currency": "UnknownCurrency"},
		},
		{
			name: "blank category with bad amount",
			candidate: entity.CandidateTransaction{
				Amount:   decPtr("0"),
				Category: strPtr("   "),
			},
			wantMissing: []string{"category"},
			wantInvalid: map[string]string{"amount": "NotPositive"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := svc.validate(tc.candidate)

			assert.False(t, result.Valid())
			assert.Nil(t, result.Transaction)
			assert.Equal(t, tc.wantMissing, result.Missing)
			if tc.wantInvalid == nil {
				assert.Empty(t, result.Invalid)
			} else {
				assert.Equal(t, tc.wantInvalid, result.Invalid)
			}
		})
	}
}

func TestValidateDefaultsCurrencyAndDate(t *testing.T) {
	svc, _ := newTestService(&fakeChat{}, newFakeRepository(), &fakeTranscriber{})

	result := svc.validate(entity.CandidateTransaction{
		Amount:   decPtr("250"),
		Category: strPtr("кофе"),
	})

	require.True(t, result.Valid())
	assert.Equal(t, "RUB", result.Transaction.Currency)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	assert.Equal(t, today, result.Transaction.OccurredOn)
}
