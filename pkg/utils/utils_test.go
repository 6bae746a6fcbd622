package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()

	when := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	id, err := u.NewULIDFromTimestamp(when)

	require.NoError(t, err)
	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(when), parsed.Time())
}

func TestValidateAudioPayload(t *testing.T) {
	u := New()

	tests := []struct {
		name     string
		data     []byte
		filename string
		wantErr  bool
	}{
		{"voice note", []byte("ogg"), "voice.oga", false},
		{"uppercase extension", []byte("ogg"), "VOICE.OGG", false},
		{"mp3", []byte("mp3"), "memo.mp3", false},
		{"empty payload", nil, "voice.oga", true},
		{"unsupported format", []byte("pdf"), "scan.pdf", true},
		{"no extension", []byte("raw"), "voice", true},
		{"oversized payload", bytes.Repeat([]byte("a"), 26*1024*1024), "voice.ogg", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := u.ValidateAudioPayload(tc.data, tc.filename)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
