package utils

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateAudioPayload(data []byte, filename string) error
}

type utils struct {
	maxAudioSize int64
}

func New() IUtils {
	return &utils{
		maxAudioSize: 25 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) ValidateAudioPayload(data []byte, filename string) error {
	if len(data) == 0 {
		return errors.New("no audio uploaded")
	}

	if int64(len(data)) > u.maxAudioSize {
		return errors.New("audio size exceeds limit")
	}

	allowed := []string{".oga", ".ogg", ".mp3", ".m4a", ".wav", ".webm"}
	lower := strings.ToLower(filename)
	for _, ext := range allowed {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}

	return errors.New("unsupported audio format")
}
