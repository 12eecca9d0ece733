package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDroppedSend(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "not connected",
			err:  NotConnectedError,
			want: true,
		},
		{
			name: "session stopped",
			err:  SessionStoppedError,
			want: true,
		},
		{
			name: "wrapped not connected",
			err:  fmt.Errorf("sending cursor: %w", NotConnectedError),
			want: true,
		},
		{
			name: "unrelated",
			err:  New("unrelated"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsDroppedSend(tt.err))
		})
	}
}

func TestNotFoundParticipant(t *testing.T) {
	err := fmt.Errorf("updating cursor: %w", &ParticipantNotFoundError{UserID: "ab12cd34"})
	id, ok := NotFoundParticipant(err)
	assert.True(t, ok)
	assert.Equal(t, "ab12cd34", id)

	_, ok = NotFoundParticipant(New("sample"))
	assert.False(t, ok)
}

func TestNotFoundRoom(t *testing.T) {
	err := &RoomNotFoundError{RoomID: "4d8c6b36"}
	assert.Equal(t, `room "4d8c6b36" not found`, err.Error())

	id, ok := NotFoundRoom(fmt.Errorf("fetch: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "4d8c6b36", id)

	_, ok = NotFoundRoom(New("sample"))
	assert.False(t, ok)
}

func TestEnvelopeErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "decode with type",
			err:  &EnvelopeDecodeError{Type: "code_update", Reason: "missing code"},
			want: `undecodable "code_update" envelope: missing code`,
		},
		{
			name: "decode without type",
			err:  &EnvelopeDecodeError{Reason: "invalid JSON"},
			want: "undecodable envelope: invalid JSON",
		},
		{
			name: "unknown type",
			err:  &UnknownEnvelopeTypeError{Type: "voice_chat"},
			want: `unknown envelope type "voice_chat"`,
		},
		{
			name: "size limit",
			err:  &DocumentSizeLimitError{Size: 2048},
			want: "size of 2048 bytes exceeds permitted limit",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}

	assert.True(t, IsEnvelopeDecode(fmt.Errorf("inbound: %w", &EnvelopeDecodeError{Reason: "bad"})))
	assert.False(t, IsEnvelopeDecode(New("sample")))
}
