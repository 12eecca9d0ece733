package model

import "go.lsp.dev/protocol"

// Participant is the repository layer model for one remote user in the room.
type Participant struct {
	ID          string
	Name        string
	Color       string
	Cursor      protocol.Position
	Selection   *protocol.Range
	Decorations []uint64
}
