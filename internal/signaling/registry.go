package signaling

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"
)

var ErrTooFewParticipants = errors.New("room needs at least 2 participants")

// Room is a bounded signaling channel for one mentorship session's call.
// The allow-list is fixed at creation and never grows.
type Room struct {
	ID           string             `json:"id"`
	SessionID    string             `json:"sessionId"`
	Participants []string           `json:"participants"`
	ICEServers   []webrtc.ICEServer `json:"iceServers"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// Allowed reports whether address is on the room's allow-list.
func (r *Room) Allowed(address string) bool {
	address = normalizeAddr(address)
	for _, p := range r.Participants {
		if p == address {
			return true
		}
	}
	return false
}

// RoomRegistry owns room metadata. Cascade deletion of participants and
// chat history is orchestrated by the dispatcher, which is the registry's
// only mutator besides the REST room-creation path.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	ice   []webrtc.ICEServer
	now   func() time.Time
}

func NewRoomRegistry(ice []webrtc.ICEServer) *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*Room),
		ice:   ice,
		now:   time.Now,
	}
}

// CreateRoom stores a fresh room for the session. Session ids are opaque
// and deliberately not deduplicated: a session may get a new room
// generation over time, and the room id is the join key.
func (g *RoomRegistry) CreateRoom(sessionID string, participants []string) (*Room, error) {
	if len(participants) < 2 {
		return nil, ErrTooFewParticipants
	}
	allowList := make([]string, len(participants))
	for i, p := range participants {
		allowList[i] = normalizeAddr(p)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	id := fmt.Sprintf("room_%s_%d", sessionID, now.UnixMilli())
	for n := 1; ; n++ {
		if _, taken := g.rooms[id]; !taken {
			break
		}
		id = fmt.Sprintf("room_%s_%d_%d", sessionID, now.UnixMilli(), n)
	}
	room := &Room{
		ID:           id,
		SessionID:    sessionID,
		Participants: allowList,
		ICEServers:   g.ice,
		CreatedAt:    now,
	}
	g.rooms[id] = room
	return room, nil
}

func (g *RoomRegistry) GetRoom(roomID string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[roomID]
	return room, ok
}

// ListActiveRooms returns a snapshot of all rooms currently held.
func (g *RoomRegistry) ListActiveRooms() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		out = append(out, room)
	}
	return out
}

func (g *RoomRegistry) DeleteRoom(roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, roomID)
}

func (g *RoomRegistry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func normalizeAddr(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
