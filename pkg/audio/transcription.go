package audio

import (
	"bytes"
	"context"
	"errors"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// ITranscription converts raw voice bytes to text. Whisper runs through the
// OpenAI endpoint even when the chat provider is overridden.
type ITranscription interface {
	TranscribeAudio(ctx context.Context, audio []byte, filename string) (string, error)
}

type TranscriptionService struct {
	client   *openai.Client
	language string
}

func NewTranscriptionService(apiKey string) *TranscriptionService {
	language := os.Getenv("WHISPER_LANGUAGE")
	if language == "" {
		language = "ru"
	}

	return &TranscriptionService{
		client:   openai.NewClient(apiKey),
		language: language,
	}
}

func (t *TranscriptionService) TranscribeAudio(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("empty audio payload")
	}

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
		Language: t.language,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
