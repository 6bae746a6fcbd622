package expenseService

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatyana-kutkina/finance-bot/internal/entity"
)

func TestMergeCandidatesNewFieldsWin(t *testing.T) {
	when := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	prior := entity.CandidateTransaction{
		Category: strPtr("такси"),
		Currency: strPtr("RUB"),
		RawText:  "потратил на такси",
	}
	next := entity.CandidateTransaction{
		Amount:     decPtr("200"),
		OccurredOn: &when,
		RawText:    "200",
	}

	merged := mergeCandidates(prior, next)

	require.NotNil(t, merged.Amount)
	assert.True(t, merged.Amount.Equal(*next.Amount))
	assert.Equal(t, "такси", *merged.Category)
	assert.Equal(t, "RUB", *merged.Currency)
	assert.Equal(t, when, *merged.OccurredOn)
	assert.Equal(t, "потратил на такси", merged.RawText)
}

func TestMergeCandidatesOverridesPriorValues(t *testing.T) {
	prior := entity.CandidateTransaction{
		Amount:   decPtr("100"),
		Category: strPtr("кофе"),
	}
	next := entity.CandidateTransaction{
		Amount:   decPtr("150"),
		Category: strPtr("обед"),
	}

	merged := mergeCandidates(prior, next)

	assert.True(t, merged.Amount.Equal(*next.Amount))
	assert.Equal(t, "обед", *merged.Category)
}

func TestMergeCandidatesUnparsedAmountReplacesPrior(t *testing.T) {
	prior := entity.CandidateTransaction{Amount: decPtr("100")}
	next := entity.CandidateTransaction{AmountUnparsed: true}

	merged := mergeCandidates(prior, next)

	assert.Nil(t, merged.Amount)
	assert.True(t, merged.AmountUnparsed)
}

func TestMergeCandidatesAbsentFieldsKeepPrior(t *testing.T) {
	prior := entity.CandidateTransaction{
		Amount:   decPtr("100"),
		Category: strPtr("кофе"),
		Currency: strPtr("EUR"),
	}

	merged := mergeCandidates(prior, entity.CandidateTransaction{RawText: "да"})

	assert.True(t, merged.Amount.Equal(*prior.Amount))
	assert.Equal(t, "кофе", *merged.Category)
	assert.Equal(t, "EUR", *merged.Currency)
}
