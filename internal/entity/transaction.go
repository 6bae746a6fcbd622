package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a validated, persisted expense record. Amount is always
// positive with two fractional digits; Category is non-empty after
// normalization.
type Transaction struct {
	ID         string          `db:"id" json:"id"`
	UserID     string          `db:"user_id" json:"user_id"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Category   string          `db:"category" json:"category"`
	Currency   string          `db:"currency" json:"currency"`
	RawText    string          `db:"raw_text" json:"raw_text,omitempty"`
	OccurredOn time.Time       `db:"occurred_on" json:"occurred_on"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// CandidateTransaction is the model's raw extraction output before
// validation. Nil pointers mean the field was absent from the response.
// It never reaches storage; it lives only inside a dialog turn.
type CandidateTransaction struct {
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Category *string          `json:"category,omitempty"`
	Currency *string          `json:"currency,omitempty"`
	// OccurredOn is set when the utterance named a date the model could parse.
	OccurredOn *time.Time `json:"occurred_on,omitempty"`
	RawText    string     `json:"raw_text"`
	// AmountUnparsed marks an amount that was present in the response but not
	// numeric. The validator reports it, the parser does not reject it.
	AmountUnparsed bool `json:"amount_unparsed,omitempty"`
}
