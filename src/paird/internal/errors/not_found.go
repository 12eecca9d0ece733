package errors

import (
	stderr "errors"
	"fmt"
)

// ParticipantNotFoundError is a service domain error for an unknown user identifier.
type ParticipantNotFoundError struct {
	UserID string
}

// Error is an implementation of the error interface.
func (n *ParticipantNotFoundError) Error() string {
	return fmt.Sprintf("participant %q not found", n.UserID)
}

// NotFoundParticipant returns the user identifier and true if
// ParticipantNotFoundError is part of the error chain.
func NotFoundParticipant(e error) (_ string, ok bool) {
	var nf *ParticipantNotFoundError
	if !stderr.As(e, &nf) {
		return "", false
	}
	return nf.UserID, true
}

// RoomNotFoundError indicates that the registry has no room with this identifier.
type RoomNotFoundError struct {
	RoomID string
}

// Error is an implementation of the error interface.
func (n *RoomNotFoundError) Error() string {
	return fmt.Sprintf("room %q not found", n.RoomID)
}

// NotFoundRoom returns the room identifier and true if RoomNotFoundError is
// part of the error chain.
func NotFoundRoom(e error) (_ string, ok bool) {
	var nf *RoomNotFoundError
	if !stderr.As(e, &nf) {
		return "", false
	}
	return nf.RoomID, true
}
