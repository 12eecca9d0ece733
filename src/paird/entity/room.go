package entity

import "time"

// DefaultRoomLanguage is assigned to rooms created without a language tag.
const DefaultRoomLanguage = "python"

// DefaultRoomCode seeds the shared buffer of a newly created room.
const DefaultRoomCode = "# Start coding here..."

// Room is the registry's metadata for one shared editing room. The registry
// owns persistence; the session only ever needs the identifier.
type Room struct {
	ID        string    `json:"id" zap:"id"`
	Name      string    `json:"name" zap:"name"`
	Code      string    `json:"code" zap:"-"`
	Language  string    `json:"language" zap:"language"`
	CreatedAt time.Time `json:"created_at" zap:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" zap:"updatedAt"`
}

// Suggestions is one scored result from the suggestion backend.
type Suggestions struct {
	Items      []string `json:"suggestions"`
	Confidence float64  `json:"confidence"`
}

// Usable reports whether the result is worth surfacing: it must carry at
// least one suggestion and meet the given confidence floor.
func (s Suggestions) Usable(minConfidence float64) bool {
	return len(s.Items) > 0 && s.Confidence >= minConfidence
}
