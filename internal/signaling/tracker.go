package signaling

import (
	"sync"
	"time"
)

// Participant is one currently connected member of a room. Distinct from
// the room's allow-list: a socket can drop and reconnect while staying
// authorized.
type Participant struct {
	Address  string
	Client   *Client
	Media    MediaState
	JoinedAt time.Time
}

// ParticipantTracker owns, per room, the connected participants in join
// order. At most one live connection per address per room.
type ParticipantTracker struct {
	mu    sync.RWMutex
	rooms map[string][]*Participant
	now   func() time.Time
}

func NewParticipantTracker() *ParticipantTracker {
	return &ParticipantTracker{
		rooms: make(map[string][]*Participant),
		now:   time.Now,
	}
}

// Upsert registers the client under address. On reconnect the connection
// handle is swapped; media state and joined-at are kept.
func (t *ParticipantTracker) Upsert(roomID, address string, c *Client) *Participant {
	address = normalizeAddr(address)
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.rooms[roomID] {
		if p.Address == address {
			p.Client = c
			return p
		}
	}
	p := &Participant{
		Address:  address,
		Client:   c,
		JoinedAt: t.now(),
	}
	t.rooms[roomID] = append(t.rooms[roomID], p)
	return p
}

// Remove deletes the participant. empty is true when the room had the
// participant and now holds nobody; the caller cascades room deletion.
func (t *ParticipantTracker) Remove(roomID, address string) (found, empty bool) {
	address = normalizeAddr(address)
	t.mu.Lock()
	defer t.mu.Unlock()
	participants := t.rooms[roomID]
	for i, p := range participants {
		if p.Address == address {
			t.rooms[roomID] = append(participants[:i], participants[i+1:]...)
			if len(t.rooms[roomID]) == 0 {
				delete(t.rooms, roomID)
				return true, true
			}
			return true, false
		}
	}
	return false, false
}

// UpdateMedia replaces the participant's media state wholesale. No-op if
// the participant is not present.
func (t *ParticipantTracker) UpdateMedia(roomID, address string, state MediaState) bool {
	address = normalizeAddr(address)
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.rooms[roomID] {
		if p.Address == address {
			p.Media = state
			return true
		}
	}
	return false
}

func (t *ParticipantTracker) Get(roomID, address string) (*Participant, bool) {
	address = normalizeAddr(address)
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.rooms[roomID] {
		if p.Address == address {
			return p, true
		}
	}
	return nil, false
}

// FindByClient recovers which room/address a dropped connection belonged
// to; disconnects carry no room context of their own.
func (t *ParticipantTracker) FindByClient(c *Client) (roomID, address string, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for id, participants := range t.rooms {
		for _, p := range participants {
			if p.Client == c {
				return id, p.Address, true
			}
		}
	}
	return "", "", false
}

// List returns the externally visible participant snapshot in join order.
func (t *ParticipantTracker) List(roomID string) []ParticipantInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	participants := t.rooms[roomID]
	out := make([]ParticipantInfo, 0, len(participants))
	for _, p := range participants {
		out = append(out, ParticipantInfo{
			UserAddress: p.Address,
			MediaState:  p.Media,
			JoinedAt:    p.JoinedAt,
		})
	}
	return out
}

func (t *ParticipantTracker) Count(roomID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms[roomID])
}

// Connections returns the total connected participant count across rooms.
func (t *ParticipantTracker) Connections() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, participants := range t.rooms {
		n += len(participants)
	}
	return n
}

func (t *ParticipantTracker) DeleteRoom(roomID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rooms, roomID)
}
