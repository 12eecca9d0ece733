package entity

import "go.lsp.dev/protocol"

// InitEvent is the server's authoritative baseline, delivered exactly once
// per connection. It is the recovery mechanism after every reconnect.
type InitEvent struct {
	RoomID   string
	Code     string
	Language string
}

// CursorEvent reports one participant's cursor, and selection if any.
type CursorEvent struct {
	UserID    string
	UserName  string
	Position  protocol.Position
	Selection *protocol.Range
}

// PresenceEvent reports a participant joining or leaving the room.
// UserID is set only on departure.
type PresenceEvent struct {
	RoomID    string
	UserID    string
	UserCount int
}
