package factory

import (
	"github.com/gofrs/uuid"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// UserID returns a fresh wire identity for a participant. Wire identifiers
// are the first eight hex characters of a v4 UUID, matching the identifiers
// the room server hands out.
func UserID() string {
	return UUID().String()[:8]
}
