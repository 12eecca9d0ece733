package mapper

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.uber.org/goleak"
)

func TestDecodeEnvelope(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		wantType string
		wantErr  string
	}{
		{
			name:     "valid code update",
			raw:      `{"type":"code_update","data":{"code":"print(1)"}}`,
			wantType: TypeCodeUpdate,
		},
		{
			name:     "valid with timestamp",
			raw:      `{"type":"user_joined","data":{"room_id":"r1","user_count":2},"timestamp":"2025-01-01T00:00:00Z"}`,
			wantType: TypeUserJoined,
		},
		{
			name:    "not JSON",
			raw:     `{{{`,
			wantErr: "undecodable envelope",
		},
		{
			name:    "missing type tag",
			raw:     `{"data":{"code":"x"}}`,
			wantErr: "missing type tag",
		},
		{
			name:    "unknown type tag",
			raw:     `{"type":"voice_chat","data":{}}`,
			wantErr: `unknown envelope type "voice_chat"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env, err := DecodeEnvelope([]byte(tc.raw))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, env.Type)
		})
	}
}

func TestDecodeEnvelopeErrorTypes(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`not json`))
	assert.True(t, errors.IsEnvelopeDecode(err), "parse failures should be decode errors")

	_, err = DecodeEnvelope([]byte(`{"type":"voice_chat"}`))
	var unknown *errors.UnknownEnvelopeTypeError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "voice_chat", unknown.Type)
}

func TestInitFromEnvelope(t *testing.T) {
	t.Run("complete payload", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"type":"init","data":{"room_id":"r1","code":"# start","language":"go"}}`))
		require.NoError(t, err)
		ev, err := InitFromEnvelope(env)
		require.NoError(t, err)
		assert.Equal(t, "r1", ev.RoomID)
		assert.Equal(t, "# start", ev.Code)
		assert.Equal(t, "go", ev.Language)
	})
	t.Run("language defaults", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"type":"init","data":{"code":""}}`))
		require.NoError(t, err)
		ev, err := InitFromEnvelope(env)
		require.NoError(t, err)
		assert.Equal(t, entity.DefaultRoomLanguage, ev.Language)
		assert.Empty(t, ev.Code)
	})
	t.Run("missing code", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"type":"init","data":{"room_id":"r1"}}`))
		require.NoError(t, err)
		_, err = InitFromEnvelope(env)
		assert.True(t, errors.IsEnvelopeDecode(err))
	})
}

func TestCodeUpdateFromEnvelope(t *testing.T) {
	t.Run("present code", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"type":"code_update","data":{"code":"x = 1"}}`))
		require.NoError(t, err)
		code, err := CodeUpdateFromEnvelope(env)
		require.NoError(t, err)
		assert.Equal(t, "x = 1", code)
	})
	t.Run("empty string is valid", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"type":"code_update","data":{"code":""}}`))
		require.NoError(t, err)
		code, err := CodeUpdateFromEnvelope(env)
		require.NoError(t, err)
		assert.Empty(t, code)
	})
	t.Run("missing code", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"type":"code_update","data":{}}`))
		require.NoError(t, err)
		_, err = CodeUpdateFromEnvelope(env)
		assert.True(t, errors.IsEnvelopeDecode(err))
	})
}

func TestCursorFromEnvelope(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		want    *entity.CursorEvent
		wantErr bool
	}{
		{
			name: "cursor only",
			data: `{"user_id":"ab12cd34","user_name":"grace","position":{"line":3,"column":7}}`,
			want: &entity.CursorEvent{
				UserID:   "ab12cd34",
				UserName: "grace",
				Position: protocol.Position{Line: 3, Character: 7},
			},
		},
		{
			name: "cursor with selection",
			data: `{"user_id":"ab12cd34","position":{"line":0,"column":0},"selection":{"start":{"line":0,"column":0},"end":{"line":1,"column":4}}}`,
			want: &entity.CursorEvent{
				UserID:   "ab12cd34",
				Position: protocol.Position{},
				Selection: &protocol.Range{
					Start: protocol.Position{},
					End:   protocol.Position{Line: 1, Character: 4},
				},
			},
		},
		{
			name:    "missing user id",
			data:    `{"position":{"line":1,"column":1}}`,
			wantErr: true,
		},
		{
			name:    "missing position",
			data:    `{"user_id":"ab12cd34"}`,
			wantErr: true,
		},
		{
			name:    "partial position",
			data:    `{"user_id":"ab12cd34","position":{"line":1}}`,
			wantErr: true,
		},
		{
			name:    "negative column",
			data:    `{"user_id":"ab12cd34","position":{"line":1,"column":-2}}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := &Envelope{Type: TypeCursorUpdate, Data: json.RawMessage(tc.data)}
			ev, err := CursorFromEnvelope(env)
			if tc.wantErr {
				assert.True(t, errors.IsEnvelopeDecode(err), "expected a decode error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, ev)
		})
	}
}

func TestPresenceFromEnvelope(t *testing.T) {
	t.Run("user joined", func(t *testing.T) {
		env := &Envelope{Type: TypeUserJoined, Data: json.RawMessage(`{"room_id":"r1","user_count":3}`)}
		ev, err := PresenceFromEnvelope(env)
		require.NoError(t, err)
		assert.Equal(t, 3, ev.UserCount)
		assert.Empty(t, ev.UserID)
	})
	t.Run("user left", func(t *testing.T) {
		env := &Envelope{Type: TypeUserLeft, Data: json.RawMessage(`{"room_id":"r1","user_id":"ab12cd34","user_count":1}`)}
		ev, err := PresenceFromEnvelope(env)
		require.NoError(t, err)
		assert.Equal(t, "ab12cd34", ev.UserID)
		assert.Equal(t, 1, ev.UserCount)
	})
	t.Run("user left without id", func(t *testing.T) {
		env := &Envelope{Type: TypeUserLeft, Data: json.RawMessage(`{"room_id":"r1","user_count":1}`)}
		_, err := PresenceFromEnvelope(env)
		assert.True(t, errors.IsEnvelopeDecode(err))
	})
	t.Run("missing count", func(t *testing.T) {
		env := &Envelope{Type: TypeUserJoined, Data: json.RawMessage(`{"room_id":"r1"}`)}
		_, err := PresenceFromEnvelope(env)
		assert.True(t, errors.IsEnvelopeDecode(err))
	})
}

func TestEncodeOutboundCarriesNoTimestamp(t *testing.T) {
	raw, err := EncodeCodeUpdate("print(1)")
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "timestamp"), "clients must not stamp envelopes")

	raw, err = EncodeCursorUpdate("ab12cd34", "grace", protocol.Position{Line: 1, Character: 2}, nil)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "timestamp"), "clients must not stamp envelopes")
}

func TestEncodeCursorUpdateRoundTrip(t *testing.T) {
	sel := &protocol.Range{
		Start: protocol.Position{Line: 1, Character: 0},
		End:   protocol.Position{Line: 1, Character: 5},
	}
	raw, err := EncodeCursorUpdate("ab12cd34", "grace", protocol.Position{Line: 1, Character: 5}, sel)
	require.NoError(t, err)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	ev, err := CursorFromEnvelope(env)
	require.NoError(t, err)
	assert.Equal(t, "ab12cd34", ev.UserID)
	assert.Equal(t, protocol.Position{Line: 1, Character: 5}, ev.Position)
	require.NotNil(t, ev.Selection)
	assert.Equal(t, *sel, *ev.Selection)
}

func TestServerStampedEncoders(t *testing.T) {
	at := time.Date(2025, time.March, 4, 5, 6, 7, 0, time.UTC)

	raw, err := EncodeInitAt("r1", "# start", "python", at)
	require.NoError(t, err)
	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeInit, env.Type)
	assert.Equal(t, at, env.Time())

	raw, err = EncodeUserLeftAt("r1", "ab12cd34", 1, at)
	require.NoError(t, err)
	env, err = DecodeEnvelope(raw)
	require.NoError(t, err)
	ev, err := PresenceFromEnvelope(env)
	require.NoError(t, err)
	assert.Equal(t, "ab12cd34", ev.UserID)

	raw, err = EncodeErrorAt("Invalid message format", at)
	require.NoError(t, err)
	env, err = DecodeEnvelope(raw)
	require.NoError(t, err)
	msg, err := ErrorFromEnvelope(env)
	require.NoError(t, err)
	assert.Equal(t, "Invalid message format", msg)
}

func TestEnvelopeTime(t *testing.T) {
	assert.True(t, (&Envelope{}).Time().IsZero(), "absent timestamp should be the zero time")
	assert.True(t, (&Envelope{Timestamp: "yesterday-ish"}).Time().IsZero(), "unparseable timestamp should be the zero time")
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
