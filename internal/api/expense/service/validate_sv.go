package expenseService

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	"github.com/tatyana-kutkina/finance-bot/internal/entity"
)

const (
	reasonNotPositive     = "NotPositive"
	reasonUnknownCurrency = "UnknownCurrency"
)

var recognizedCurrencies = map[string]struct{}{
	"RUB": {}, "USD": {}, "EUR": {}, "GBP": {}, "CHF": {}, "CNY": {},
	"JPY": {}, "KZT": {}, "BYN": {}, "UAH": {}, "AMD": {}, "GEL": {},
	"AED": {}, "TRY": {}, "THB": {}, "INR": {}, "RSD": {}, "UZS": {},
	"KGS": {}, "AZN": {}, "ILS": {}, "CZK": {}, "PLN": {}, "SEK": {},
}

// validate applies the business rules to a candidate and collects every
// violation, so one clarification question can address all of them. A valid
// candidate comes back as a normalized transaction draft without ID, user or
// timestamps; the dialog step fills those right before persisting.
func (s *expenseService) validate(candidate entity.CandidateTransaction) expense.ValidationResult {
	result := expense.ValidationResult{
		Invalid: make(map[string]string),
	}

	switch {
	case candidate.AmountUnparsed:
		result.Invalid["amount"] = reasonNotPositive
	case candidate.Amount == nil:
		result.Missing = append(result.Missing, "amount")
	case !candidate.Amount.IsPositive():
		result.Invalid["amount"] = reasonNotPositive
	}

	if candidate.Category == nil || strings.TrimSpace(*candidate.Category) == "" {
		result.Missing = append(result.Missing, "category")
	}

	currency := s.cfg.DefaultCurrency
	if candidate.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*candidate.Currency))
		if _, ok := recognizedCurrencies[code]; !ok {
			result.Invalid["currency"] = reasonUnknownCurrency
		} else {
			currency = code
		}
	}

	if !result.Valid() {
		if len(result.Invalid) == 0 {
			result.Invalid = nil
		}
		return result
	}
	result.Invalid = nil

	now := time.Now()
	occurredOn := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.OccurredOn != nil {
		occurredOn = *candidate.OccurredOn
	}

	result.Transaction = &entity.Transaction{
		Amount:     candidate.Amount.RoundBank(2),
		Category:   cases.Title(language.Und).String(strings.TrimSpace(*candidate.Category)),
		Currency:   currency,
		RawText:    candidate.RawText,
		OccurredOn: occurredOn,
	}

	return result
}
