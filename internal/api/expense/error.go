package expense

import "github.com/tatyana-kutkina/finance-bot/pkg/response"

var (
	ErrEmptyInput          = response.NewError(400, "empty input")
	ErrInvalidAudioFile    = response.NewError(400, "invalid audio file")
	ErrUnsupportedFormat   = response.NewError(400, "unsupported audio format")
	ErrTranscriptionFailed = response.NewError(502, "failed to transcribe audio")
	ErrUserNotFound        = response.NewError(404, "user not found")
	ErrPersistenceFailed   = response.NewError(503, "failed to persist transaction")
)
