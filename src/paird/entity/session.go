// Package entity contains the domain types for the paird daemon.
package entity

import (
	"fmt"

	"github.com/gofrs/uuid"
	"go.lsp.dev/protocol"
)

// ConnectionState describes the lifecycle of the session's link to the room server.
type ConnectionState int

const (
	// StateDisconnected is the initial state, before any connection attempt.
	StateDisconnected ConnectionState = iota
	// StateConnecting indicates a dial is in progress.
	StateConnecting
	// StateConnected indicates a live channel confirmed by the server's init envelope.
	// This is the only state in which local edits are forwarded.
	StateConnected
	// StateReconnecting indicates the channel was lost and a retry is scheduled.
	StateReconnecting
)

// String implements fmt.Stringer.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Editable reports whether the buffer may be edited and forwarded in this state.
func (s ConnectionState) Editable() bool {
	return s == StateConnected
}

// Session represents one room membership for the lifetime of the daemon process.
// The room identifier is immutable once the session is created.
type Session struct {
	UUID      uuid.UUID       `json:"uuid" zap:"uuid"`
	RoomID    string          `json:"roomId" zap:"roomId"`
	UserID    string          `json:"userId" zap:"userId"`
	UserName  string          `json:"userName" zap:"userName"`
	Language  string          `json:"language" zap:"language"`
	State     ConnectionState `json:"state" zap:"state"`
	UserCount int             `json:"userCount" zap:"userCount"`
}

// DecorationHandle identifies one painted decoration owned by a participant.
type DecorationHandle uint64

// DecorationStyle describes how a participant's presence is painted.
type DecorationStyle struct {
	Color     string `json:"color"`
	Highlight bool   `json:"highlight"`
}

// Participant is the visible state of one other user in the room.
// Entries are created on the first cursor report for an unseen identifier,
// updated in place afterwards, and destroyed on departure.
type Participant struct {
	ID          string             `json:"id" zap:"id"`
	Name        string             `json:"name" zap:"name"`
	Color       string             `json:"color" zap:"color"`
	Cursor      protocol.Position  `json:"cursor" zap:"cursor"`
	Selection   *protocol.Range    `json:"selection,omitempty" zap:"selection"`
	Decorations []DecorationHandle `json:"-" zap:"-"`
}

// DisplayName returns the participant's name, falling back to a derived one.
func (p *Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return DefaultUserName(p.ID)
}

// DefaultUserName derives the display name used when a client does not pick one.
func DefaultUserName(userID string) string {
	return "User-" + userID
}
