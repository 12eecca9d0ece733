// Package mapper converts between wire, entity and model representations.
//
// The wire protocol is a closed set of JSON envelopes exchanged with the
// room server. Positions on the wire are zero-based line/column pairs;
// in-process code works with protocol.Position values.
package mapper

import (
	"encoding/json"
	"time"

	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/internal/errors"
	"go.lsp.dev/protocol"
)

// Envelope type tags of the room protocol.
const (
	TypeInit         = "init"
	TypeCodeUpdate   = "code_update"
	TypeCursorUpdate = "cursor_update"
	TypeUserJoined   = "user_joined"
	TypeUserLeft     = "user_left"
	TypeError        = "error"
)

// Envelope is the unit of wire communication. The type tag determines the
// payload shape. Timestamps are server-assigned; outbound client envelopes
// never carry one.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// KnownType reports whether the type tag belongs to the protocol's closed set.
func KnownType(t string) bool {
	switch t {
	case TypeInit, TypeCodeUpdate, TypeCursorUpdate, TypeUserJoined, TypeUserLeft, TypeError:
		return true
	}
	return false
}

// Time returns the server-assigned timestamp, or the zero time when absent
// or unparseable. The timestamp is informational only.
func (e *Envelope) Time() time.Time {
	if e.Timestamp == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

type initPayload struct {
	RoomID   string  `json:"room_id"`
	Code     *string `json:"code"`
	Language string  `json:"language"`
}

type codeUpdatePayload struct {
	Code *string `json:"code"`
}

type wirePosition struct {
	Line   *int `json:"line"`
	Column *int `json:"column"`
}

type wireRange struct {
	Start wirePosition `json:"start"`
	End   wirePosition `json:"end"`
}

type cursorUpdatePayload struct {
	UserID    string        `json:"user_id"`
	UserName  string        `json:"user_name,omitempty"`
	Position  *wirePosition `json:"position"`
	Selection *wireRange    `json:"selection,omitempty"`
}

type presencePayload struct {
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id,omitempty"`
	UserCount *int   `json:"user_count"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// DecodeEnvelope parses one inbound frame. A frame that is not a JSON
// envelope, or that lacks a type tag, yields an EnvelopeDecodeError; a type
// tag outside the closed set yields an UnknownEnvelopeTypeError. Both are
// grounds for dropping the single frame, never for tearing anything down.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &errors.EnvelopeDecodeError{Reason: err.Error()}
	}
	if env.Type == "" {
		return nil, &errors.EnvelopeDecodeError{Reason: "missing type tag"}
	}
	if !KnownType(env.Type) {
		return nil, &errors.UnknownEnvelopeTypeError{Type: env.Type}
	}
	return &env, nil
}

// InitFromEnvelope extracts the authoritative baseline from an init envelope.
func InitFromEnvelope(env *Envelope) (*entity.InitEvent, error) {
	var p initPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: err.Error()}
	}
	if p.Code == nil {
		return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: "missing code"}
	}
	language := p.Language
	if language == "" {
		language = entity.DefaultRoomLanguage
	}
	return &entity.InitEvent{
		RoomID:   p.RoomID,
		Code:     *p.Code,
		Language: language,
	}, nil
}

// CodeUpdateFromEnvelope extracts the full replacement text from a
// code_update envelope.
func CodeUpdateFromEnvelope(env *Envelope) (string, error) {
	var p codeUpdatePayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return "", &errors.EnvelopeDecodeError{Type: env.Type, Reason: err.Error()}
	}
	if p.Code == nil {
		return "", &errors.EnvelopeDecodeError{Type: env.Type, Reason: "missing code"}
	}
	return *p.Code, nil
}

// CursorFromEnvelope extracts one participant's cursor report.
func CursorFromEnvelope(env *Envelope) (*entity.CursorEvent, error) {
	var p cursorUpdatePayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: err.Error()}
	}
	if p.UserID == "" {
		return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: "missing user_id"}
	}
	pos, err := wireToPosition(p.Position)
	if err != nil {
		return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: err.Error()}
	}
	ev := &entity.CursorEvent{
		UserID:   p.UserID,
		UserName: p.UserName,
		Position: pos,
	}
	if p.Selection != nil {
		start, err := wireToPosition(&p.Selection.Start)
		if err != nil {
			return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: err.Error()}
		}
		end, err := wireToPosition(&p.Selection.End)
		if err != nil {
			return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: err.Error()}
		}
		ev.Selection = &protocol.Range{Start: start, End: end}
	}
	return ev, nil
}

// PresenceFromEnvelope extracts a join or departure notification.
func PresenceFromEnvelope(env *Envelope) (*entity.PresenceEvent, error) {
	var p presencePayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: err.Error()}
	}
	if p.UserCount == nil {
		return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: "missing user_count"}
	}
	if env.Type == TypeUserLeft && p.UserID == "" {
		return nil, &errors.EnvelopeDecodeError{Type: env.Type, Reason: "missing user_id"}
	}
	return &entity.PresenceEvent{
		RoomID:    p.RoomID,
		UserID:    p.UserID,
		UserCount: *p.UserCount,
	}, nil
}

// ErrorFromEnvelope extracts the server's complaint from an error envelope.
func ErrorFromEnvelope(env *Envelope) (string, error) {
	var p errorPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return "", &errors.EnvelopeDecodeError{Type: env.Type, Reason: err.Error()}
	}
	return p.Message, nil
}

// EncodeCodeUpdate builds the outbound envelope for a local edit. The
// payload is the full replacement text, per the last-write-wins protocol.
func EncodeCodeUpdate(code string) ([]byte, error) {
	return encodeEnvelope(TypeCodeUpdate, codeUpdatePayload{Code: &code}, nil)
}

// EncodeCursorUpdate builds the outbound envelope for a local cursor move.
func EncodeCursorUpdate(userID, userName string, pos protocol.Position, sel *protocol.Range) ([]byte, error) {
	p := cursorUpdatePayload{
		UserID:   userID,
		UserName: userName,
		Position: positionToWire(pos),
	}
	if sel != nil {
		p.Selection = &wireRange{
			Start: *positionToWire(sel.Start),
			End:   *positionToWire(sel.End),
		}
	}
	return encodeEnvelope(TypeCursorUpdate, p, nil)
}

// EncodeInitAt builds the server-stamped baseline envelope.
func EncodeInitAt(roomID, code, language string, at time.Time) ([]byte, error) {
	return encodeEnvelope(TypeInit, initPayload{RoomID: roomID, Code: &code, Language: language}, &at)
}

// EncodeCodeUpdateAt builds the server-stamped rebroadcast of a code update.
func EncodeCodeUpdateAt(code string, at time.Time) ([]byte, error) {
	return encodeEnvelope(TypeCodeUpdate, codeUpdatePayload{Code: &code}, &at)
}

// EncodeCursorUpdateAt builds the server-stamped rebroadcast of a cursor
// report, with the sender's identity injected.
func EncodeCursorUpdateAt(ev *entity.CursorEvent, at time.Time) ([]byte, error) {
	p := cursorUpdatePayload{
		UserID:   ev.UserID,
		UserName: ev.UserName,
		Position: positionToWire(ev.Position),
	}
	if ev.Selection != nil {
		p.Selection = &wireRange{
			Start: *positionToWire(ev.Selection.Start),
			End:   *positionToWire(ev.Selection.End),
		}
	}
	return encodeEnvelope(TypeCursorUpdate, p, &at)
}

// EncodeUserJoinedAt builds the server-stamped join notification.
func EncodeUserJoinedAt(roomID string, userCount int, at time.Time) ([]byte, error) {
	return encodeEnvelope(TypeUserJoined, presencePayload{RoomID: roomID, UserCount: &userCount}, &at)
}

// EncodeUserLeftAt builds the server-stamped departure notification.
func EncodeUserLeftAt(roomID, userID string, userCount int, at time.Time) ([]byte, error) {
	return encodeEnvelope(TypeUserLeft, presencePayload{RoomID: roomID, UserID: userID, UserCount: &userCount}, &at)
}

// EncodeErrorAt builds the server-stamped reply to an unusable inbound message.
func EncodeErrorAt(message string, at time.Time) ([]byte, error) {
	return encodeEnvelope(TypeError, errorPayload{Message: message}, &at)
}

func encodeEnvelope(typ string, data interface{}, at *time.Time) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	env := Envelope{Type: typ, Data: raw}
	if at != nil {
		env.Timestamp = at.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(env)
}

func wireToPosition(p *wirePosition) (protocol.Position, error) {
	if p == nil {
		return protocol.Position{}, errors.New("missing position")
	}
	if p.Line == nil || p.Column == nil {
		return protocol.Position{}, errors.New("position requires line and column")
	}
	if *p.Line < 0 || *p.Column < 0 {
		return protocol.Position{}, errors.New("negative line or column")
	}
	return protocol.Position{Line: uint32(*p.Line), Character: uint32(*p.Column)}, nil
}

func positionToWire(p protocol.Position) *wirePosition {
	line := int(p.Line)
	column := int(p.Character)
	return &wirePosition{Line: &line, Column: &column}
}
