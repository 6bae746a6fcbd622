package expenseService

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tatyana-kutkina/finance-bot/internal/api/expense"
	expenseRepository "github.com/tatyana-kutkina/finance-bot/internal/api/expense/repository"
	"github.com/tatyana-kutkina/finance-bot/internal/entity"
	contextPkg "github.com/tatyana-kutkina/finance-bot/pkg/context"
)

// HandleUserTurn processes one user turn to completion: transcription when
// the input is voice, then the extraction-validation-clarification step, then
// persistence on success. Transcription failures never touch dialog state.
func (s *expenseService) HandleUserTurn(ctx context.Context, externalUserID string, input expense.TurnInput) (*expense.TurnOutcome, error) {
	requestID := contextPkg.GetRequestID(ctx)

	text := strings.TrimSpace(input.Text)

	if input.HasAudio() {
		if err := s.utils.ValidateAudioPayload(input.Audio, input.AudioFilename); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Invalid audio payload")
			return nil, expense.ErrInvalidAudioFile
		}

		transcript, err := s.transcriber.TranscribeAudio(ctx, input.Audio, input.AudioFilename)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Transcription failed")
			return nil, expense.ErrTranscriptionFailed
		}
		text = strings.TrimSpace(transcript)

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"transcript": text,
		}).Info("Voice turn transcribed")
	}

	if text == "" {
		return nil, expense.ErrEmptyInput
	}

	unlock := s.lockUser(externalUserID)
	defer unlock()

	repo, err := s.expenseRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	user, err := s.ensureUser(ctx, repo, externalUserID)
	if err != nil {
		return nil, err
	}

	return s.stepDialog(ctx, repo, user, text)
}

// ensureUser looks the user up by external id, creating the row on the first
// observed interaction.
func (s *expenseService) ensureUser(ctx context.Context, repo expenseRepository.Client, externalUserID string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)

	user, err := repo.Users.GetUserByExternalID(ctx, externalUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, expense.ErrUserNotFound) {
		return entity.User{}, err
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return entity.User{}, err
	}

	user = entity.User{
		ID:           id,
		ExternalID:   externalUserID,
		RegisteredAt: now,
	}
	if err := repo.Users.CreateUser(ctx, user); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"external_id": externalUserID,
			"error":       err.Error(),
		}).Error("Failed to create user")
		return entity.User{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"external_id": externalUserID,
		"user_id":     user.ID,
	}).Info("Registered new user")

	return user, nil
}
