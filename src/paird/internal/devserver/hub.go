package devserver

import (
	"sync"

	"go.uber.org/zap"
)

// hub tracks which clients are present in which room and fans frames out to
// them. A client whose send queue is full has stalled; the hub disconnects
// it rather than block the rest of the room.
type hub struct {
	logger *zap.SugaredLogger

	mu    sync.Mutex
	rooms map[string]map[*client]struct{}
}

func newHub(logger *zap.SugaredLogger) *hub {
	return &hub{
		logger: logger,
		rooms:  make(map[string]map[*client]struct{}),
	}
}

// register adds a client to its room and returns the member count after the
// addition.
func (h *hub) register(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[c.roomID]
	if !ok {
		members = make(map[*client]struct{})
		h.rooms[c.roomID] = members
	}
	members[c] = struct{}{}
	return len(members)
}

// unregister removes a client from its room. It returns the member count
// after removal and whether this call was the one that removed the client;
// only that call broadcasts the departure.
func (h *hub) unregister(c *client) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[c.roomID]
	if !ok {
		return 0, false
	}
	if _, present := members[c]; !present {
		return len(members), false
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, c.roomID)
		return 0, true
	}
	return len(members), true
}

// relay queues a frame for every member of the room except origin. A nil
// origin reaches everyone. Stalled clients are collected under the lock and
// torn down after it is released.
func (h *hub) relay(roomID string, origin *client, frame []byte) {
	h.mu.Lock()
	var stalled []*client
	for member := range h.rooms[roomID] {
		if member == origin {
			continue
		}
		if !member.enqueue(frame) {
			stalled = append(stalled, member)
		}
	}
	h.mu.Unlock()

	for _, member := range stalled {
		h.logger.Warnw("Disconnecting stalled room client", "roomId", roomID, "userId", member.userID)
		member.shutdown()
	}
}

// closeAll tears down every connected client. Used on server shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	var all []*client
	for _, members := range h.rooms {
		for member := range members {
			all = append(all, member)
		}
	}
	h.mu.Unlock()

	for _, member := range all {
		member.shutdown()
	}
}
