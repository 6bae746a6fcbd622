package expenseService

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	expenseRepository "github.com/tatyana-kutkina/finance-bot/internal/api/expense/repository"
	"github.com/tatyana-kutkina/finance-bot/internal/api/expense/store"
	"github.com/tatyana-kutkina/finance-bot/internal/entity"
	contextPkg "github.com/tatyana-kutkina/finance-bot/pkg/context"
)

// stepDialog runs one turn of the per-user state machine. The caller holds
// the user's turn lock, so the load-transition-save below cannot interleave
// with a duplicate delivery of the same message.
//
// Transition table:
//
//	idle                   + valid     -> persist, idle
//	idle                   + invalid   -> awaiting_clarification (retries=1)
//	awaiting_clarification + valid     -> persist, idle
//	awaiting_clarification + invalid   -> retries++; over bound -> idle (abandoned)
//	any                    + extraction failure -> state preserved, transient outcome
//	any                    + persist failure    -> state preserved (pending), transient outcome
func (s *expenseService) stepDialog(ctx context.Context, repo expenseRepository.Client, user entity.User, text string) (*expense.TurnOutcome, error) {
	requestID := contextPkg.GetRequestID(ctx)

	state, err := s.dialogStore.Get(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, store.ErrStateNotFound) {
			return nil, err
		}
		state = entity.DialogState{UserID: user.ID, Stage: entity.StageIdle}
	}

	// A validated transaction whose insert failed earlier is retried as-is;
	// the user already answered everything.
	if state.Pending != nil {
		return s.persistAndClear(ctx, repo, state, *state.Pending)
	}

	var clar *expense.ClarificationContext
	if state.Stage == entity.StageAwaitingClarification {
		clar = &expense.ClarificationContext{
			Prior:   state.Partial,
			Missing: state.Missing,
			Invalid: state.Invalid,
		}
	}

	candidate, err := s.extract(ctx, text, clar)
	if err != nil {
		extErr, ok := expense.AsExtractionError(err)
		if !ok {
			return nil, err
		}
		// Transient: the turn can be resubmitted, the retry counter is not
		// consumed and the stored partial survives.
		return &expense.TurnOutcome{
			Status:        expense.StatusTransientFailure,
			FailureReason: string(extErr.Reason),
		}, nil
	}

	if state.Stage == entity.StageAwaitingClarification {
		candidate = mergeCandidates(state.Partial, candidate)
	}

	result := s.validate(candidate)
	if result.Valid() {
		tx := *result.Transaction
		tx.UserID = user.ID
		tx.CreatedAt = time.Now()
		if tx.ID == "" {
			id, idErr := s.utils.NewULIDFromTimestamp(tx.CreatedAt)
			if idErr != nil {
				return nil, idErr
			}
			tx.ID = id
		}

		state.Partial = candidate
		return s.persistAndClear(ctx, repo, state, tx)
	}

	switch state.Stage {
	case entity.StageIdle:
		state = entity.DialogState{
			UserID:  user.ID,
			Stage:   entity.StageAwaitingClarification,
			Partial: candidate,
			Retries: 1,
			Missing: result.Missing,
			Invalid: result.Invalid,
		}
	case entity.StageAwaitingClarification:
		state.Retries++
		if state.Retries > s.cfg.MaxClarifications {
			if err := s.dialogStore.Delete(ctx, user.ID); err != nil {
				s.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"error":      err.Error(),
				}).Warn("Failed to clear abandoned dialog state")
			}
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    user.ID,
				"retries":    state.Retries,
			}).Info("Dialog abandoned after clarification retries")
			return &expense.TurnOutcome{Status: expense.StatusAbandoned}, nil
		}
		state.Partial = candidate
		state.Missing = result.Missing
		state.Invalid = result.Invalid
	}

	state.LastActivity = time.Now()
	if err := s.dialogStore.Put(ctx, state); err != nil {
		return nil, err
	}

	return &expense.TurnOutcome{
		Status:        expense.StatusClarificationNeeded,
		MissingFields: result.Missing,
		InvalidFields: result.Invalid,
		RetriesLeft:   s.cfg.MaxClarifications - state.Retries + 1,
	}, nil
}

// persistAndClear inserts the transaction and only then destroys the dialog
// state. An insert failure keeps the validated record in the state so the
// next delivery of the turn retries it without re-asking the user.
func (s *expenseService) persistAndClear(ctx context.Context, repo expenseRepository.Client, state entity.DialogState, tx entity.Transaction) (*expense.TurnOutcome, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := repo.Transactions.CreateTransaction(ctx, tx); err != nil {
		state.Pending = &tx
		state.LastActivity = time.Now()
		if putErr := s.dialogStore.Put(ctx, state); putErr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      putErr.Error(),
			}).Error("Failed to preserve dialog state after persistence failure")
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    state.UserID,
			"error":      err.Error(),
		}).Error("Failed to persist transaction")
		return &expense.TurnOutcome{
			Status:        expense.StatusTransientFailure,
			FailureReason: "persistence_failure",
		}, nil
	}

	if err := s.dialogStore.Delete(ctx, state.UserID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to clear dialog state after persistence")
	}

	return &expense.TurnOutcome{
		Status:      expense.StatusRecorded,
		Transaction: &tx,
	}, nil
}

// mergeCandidates lays newly-extracted non-absent fields over the stored
// partial. New data wins per field; a field the new turn left absent keeps
// its previous value.
func mergeCandidates(prior, next entity.CandidateTransaction) entity.CandidateTransaction {
	merged := prior

	if next.Amount != nil || next.AmountUnparsed {
		merged.Amount = next.Amount
		merged.AmountUnparsed = next.AmountUnparsed
	}
	if next.Category != nil {
		merged.Category = next.Category
	}
	if next.Currency != nil {
		merged.Currency = next.Currency
	}
	if next.OccurredOn != nil {
		merged.OccurredOn = next.OccurredOn
	}
	if merged.RawText == "" {
		merged.RawText = next.RawText
	}

	return merged
}
