package devserver

import (
	"sync"

	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/factory"
	"github.com/pairdev/paird/src/paird/internal/clock"
)

// roomStore holds the registry's rooms in memory, in creation order. All
// methods return copies; the store owns the only mutable Room values.
type roomStore struct {
	clock clock.Clock

	mu    sync.RWMutex
	rooms map[string]*entity.Room
	order []string
}

func newRoomStore(c clock.Clock) *roomStore {
	return &roomStore{
		clock: c,
		rooms: make(map[string]*entity.Room),
	}
}

func (s *roomStore) create(name, language string) entity.Room {
	if language == "" {
		language = entity.DefaultRoomLanguage
	}
	now := s.clock.Now().UTC()
	room := &entity.Room{
		ID:        factory.UUID().String(),
		Name:      name,
		Code:      entity.DefaultRoomCode,
		Language:  language,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
	s.order = append(s.order, room.ID)
	return *room
}

func (s *roomStore) get(roomID string) (entity.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return entity.Room{}, false
	}
	return *room, true
}

func (s *roomStore) list(skip, limit int) []entity.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}
	if skip > len(s.order) {
		skip = len(s.order)
	}
	end := len(s.order)
	if limit >= 0 && skip+limit < end {
		end = skip + limit
	}

	out := make([]entity.Room, 0, end-skip)
	for _, id := range s.order[skip:end] {
		out = append(out, *s.rooms[id])
	}
	return out
}

func (s *roomStore) delete(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return false
	}
	delete(s.rooms, roomID)
	for i, id := range s.order {
		if id == roomID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// updateCode stores the latest full text for a room. Returns false when the
// room no longer exists, which the relay reports back to the sender.
func (s *roomStore) updateCode(roomID, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	room.Code = code
	room.UpdatedAt = s.clock.Now().UTC()
	return true
}
