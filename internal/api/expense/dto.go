package expense

import (
	"github.com/tatyana-kutkina/finance-bot/internal/entity"
)

// TurnInput is one user turn: either free-form text or a voice payload the
// transcription adapter turns into text first.
type TurnInput struct {
	Text          string `json:"text,omitempty" validate:"omitempty,min=1,max=1000"`
	Audio         []byte `json:"-"`
	AudioFilename string `json:"-"`
}

func (in TurnInput) HasAudio() bool { return len(in.Audio) > 0 }

type TurnStatus string

const (
	StatusRecorded            TurnStatus = "recorded"
	StatusClarificationNeeded TurnStatus = "clarification_needed"
	StatusAbandoned           TurnStatus = "abandoned"
	StatusTransientFailure    TurnStatus = "transient_failure"
)

// TurnOutcome is what the chat-handling layer renders. The core never
// formats user-facing text.
type TurnOutcome struct {
	Status      TurnStatus          `json:"status"`
	Transaction *entity.Transaction `json:"transaction,omitempty"`
	// MissingFields and InvalidFields accompany clarification_needed.
	MissingFields []string          `json:"missing_fields,omitempty"`
	InvalidFields map[string]string `json:"invalid_fields,omitempty"`
	// FailureReason accompanies transient_failure.
	FailureReason string `json:"failure_reason,omitempty"`
	// RetriesLeft tells the caller how many clarification turns remain.
	RetriesLeft int `json:"retries_left,omitempty"`
}

type ProcessTurnRequest struct {
	Text string `json:"text" validate:"omitempty,min=1,max=1000"`
}

type WeeklyCategoryStat struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type WeeklyStatsResponse struct {
	From  string               `json:"from"`
	To    string               `json:"to"`
	Stats []WeeklyCategoryStat `json:"stats"`
}

type TransactionListResponse struct {
	Transactions []entity.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
}
