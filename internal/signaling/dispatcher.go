package signaling

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RateLimiter gates chat messages per sender address.
type RateLimiter interface {
	Allow(key string) bool
}

// Dispatcher routes every inbound signaling event: validates it against the
// connection's stamped identity and the room's allow-list, mutates the
// injected stores, and fans out to the right peers. It is the sole mutator
// of the tracker and history; a single mutex serializes event bodies so
// each check-then-mutate sequence completes before the next begins.
type Dispatcher struct {
	mu          sync.Mutex
	registry    *RoomRegistry
	tracker     *ParticipantTracker
	history     *ChatHistory
	chatLimiter RateLimiter // nil = unlimited
	now         func() time.Time
}

func NewDispatcher(registry *RoomRegistry, tracker *ParticipantTracker, history *ChatHistory, chatLimiter RateLimiter) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		tracker:     tracker,
		history:     history,
		chatLimiter: chatLimiter,
		now:         time.Now,
	}
}

// Dispatch processes one inbound frame from an authenticated client.
// Validation failures produce an error event to the sender only; they
// never mutate state and never propagate.
func (d *Dispatcher) Dispatch(c *Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
		d.sendError(c, "malformed payload")
		return
	}

	switch env.Event {
	case EventJoinRoom:
		var ev joinRoomEvent
		if json.Unmarshal(env.Data, &ev) != nil {
			d.sendError(c, "malformed payload")
			return
		}
		d.handleJoin(c, ev)
	case EventLeaveRoom:
		var ev leaveRoomEvent
		if json.Unmarshal(env.Data, &ev) != nil {
			d.sendError(c, "malformed payload")
			return
		}
		d.handleLeave(c, ev)
	case EventWebRTCSignal:
		var ev signalEvent
		if json.Unmarshal(env.Data, &ev) != nil {
			d.sendError(c, "malformed payload")
			return
		}
		d.handleSignal(c, ev)
	case EventChatMessage:
		var ev chatMessageEvent
		if json.Unmarshal(env.Data, &ev) != nil {
			d.sendError(c, "malformed payload")
			return
		}
		d.handleChat(c, ev)
	case EventMediaStateChange:
		var ev mediaStateChangeEvent
		if json.Unmarshal(env.Data, &ev) != nil {
			d.sendError(c, "malformed payload")
			return
		}
		d.handleMediaState(c, ev)
	case EventScreenShare:
		var ev screenShareEvent
		if json.Unmarshal(env.Data, &ev) != nil {
			d.sendError(c, "malformed payload")
			return
		}
		d.handleScreenShare(c, ev)
	default:
		d.sendError(c, fmt.Sprintf("unknown event type %q", env.Event))
	}
}

// Disconnect cleans up after an abruptly dropped connection. Silent no-op
// if the client never joined a room.
func (d *Dispatcher) Disconnect(c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	roomID, address, ok := d.tracker.FindByClient(c)
	if !ok {
		return
	}
	d.removeFromRoomLocked(roomID, address)
}

// DeleteRoom removes a room and cascades participant and chat deletion.
// Used by the janitor; also the terminal step when a room empties.
func (d *Dispatcher) DeleteRoom(roomID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleteRoomLocked(roomID)
}

func (d *Dispatcher) handleJoin(c *Client, ev joinRoomEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.identityMatches(c, ev.UserAddress) {
		d.sendError(c, "address mismatch")
		return
	}
	room, ok := d.registry.GetRoom(ev.RoomID)
	if !ok {
		d.sendError(c, "room not found")
		return
	}
	if !room.Allowed(c.Address) {
		d.sendError(c, "unauthorized to join")
		return
	}

	d.tracker.Upsert(room.ID, c.Address, c)
	participants := d.tracker.List(room.ID)

	// Reply to the joiner first so its room-joined never trails the
	// user-joined broadcast others receive.
	c.enqueue(marshalEvent(EventRoomJoined, roomJoinedPayload{
		RoomID:       room.ID,
		Config:       rtcConfig{ICEServers: room.ICEServers},
		Participants: participants,
		ChatHistory:  d.history.Get(room.ID),
	}))
	d.broadcastLocked(room.ID, c.Address, marshalEvent(EventUserJoined, userJoinedPayload{
		UserAddress:  c.Address,
		Participants: participants,
	}))
}

func (d *Dispatcher) handleLeave(c *Client, ev leaveRoomEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.identityMatches(c, ev.UserAddress) {
		d.sendError(c, "address mismatch")
		return
	}
	d.removeFromRoomLocked(ev.RoomID, c.Address)
}

func (d *Dispatcher) handleSignal(c *Client, ev signalEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.tracker.Get(ev.RoomID, c.Address); !ok {
		d.sendError(c, "not in room")
		return
	}
	relay := marshalEvent(EventWebRTCSignal, signalRelayPayload{
		RoomID:    ev.RoomID,
		From:      c.Address,
		Type:      ev.Type,
		Payload:   ev.Payload,
		Timestamp: d.now(),
	})
	if ev.To != "" {
		target, ok := d.tracker.Get(ev.RoomID, ev.To)
		if !ok {
			d.sendError(c, "target participant not found")
			return
		}
		target.Client.enqueue(relay)
		return
	}
	d.broadcastLocked(ev.RoomID, c.Address, relay)
}

func (d *Dispatcher) handleChat(c *Client, ev chatMessageEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.identityMatches(c, ev.From) {
		d.sendError(c, "address mismatch")
		return
	}
	if _, ok := d.tracker.Get(ev.RoomID, c.Address); !ok {
		d.sendError(c, "not in room")
		return
	}
	text := strings.TrimSpace(ev.Message)
	if text == "" {
		d.sendError(c, "empty message")
		return
	}
	if d.chatLimiter != nil && !d.chatLimiter.Allow(c.Address) {
		d.sendError(c, "rate limit exceeded")
		return
	}
	if runes := []rune(text); len(runes) > MaxChatMessageLen {
		text = string(runes[:MaxChatMessageLen])
	}

	now := d.now()
	msg := ChatMessage{
		ID:        fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
		RoomID:    ev.RoomID,
		From:      c.Address,
		Message:   text,
		Timestamp: now,
	}
	d.history.Append(ev.RoomID, msg)
	d.broadcastLocked(ev.RoomID, c.Address, marshalEvent(EventChatMessage, msg))
	// The sender is excluded from its own broadcast, so acknowledge
	// delivery separately.
	c.enqueue(marshalEvent(EventChatMessageSent, msg))
}

func (d *Dispatcher) handleMediaState(c *Client, ev mediaStateChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.identityMatches(c, ev.UserAddress) {
		d.sendError(c, "address mismatch")
		return
	}
	if !d.tracker.UpdateMedia(ev.RoomID, c.Address, ev.MediaState) {
		d.sendError(c, "not in room")
		return
	}
	d.broadcastLocked(ev.RoomID, c.Address, marshalEvent(EventMediaStateChanged, mediaStateChangedPayload{
		UserAddress: c.Address,
		MediaState:  ev.MediaState,
	}))
}

func (d *Dispatcher) handleScreenShare(c *Client, ev screenShareEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.identityMatches(c, ev.UserAddress) {
		d.sendError(c, "address mismatch")
		return
	}
	if _, ok := d.tracker.Get(ev.RoomID, c.Address); !ok {
		d.sendError(c, "not in room")
		return
	}
	// Notification only; screen-share state is persisted via
	// media-state-change, not here.
	d.broadcastLocked(ev.RoomID, c.Address, marshalEvent(EventScreenShareChanged, screenShareChangedPayload{
		UserAddress: c.Address,
		Sharing:     ev.Sharing,
	}))
}

// removeFromRoomLocked runs the shared leave/disconnect path: drop the
// participant, tell the rest of the room, delete the room if it emptied.
func (d *Dispatcher) removeFromRoomLocked(roomID, address string) {
	found, empty := d.tracker.Remove(roomID, address)
	if !found {
		return
	}
	if empty {
		d.deleteRoomLocked(roomID)
		return
	}
	d.broadcastLocked(roomID, address, marshalEvent(EventUserLeft, userLeftPayload{
		UserAddress:  address,
		Participants: d.tracker.List(roomID),
	}))
}

func (d *Dispatcher) deleteRoomLocked(roomID string) {
	d.registry.DeleteRoom(roomID)
	d.tracker.DeleteRoom(roomID)
	d.history.Delete(roomID)
	log.Printf("[signaling] room %s deleted", roomID)
}

// broadcastLocked fans out to every participant in the room except the
// named address.
func (d *Dispatcher) broadcastLocked(roomID, exceptAddress string, data []byte) {
	for _, info := range d.tracker.List(roomID) {
		if info.UserAddress == exceptAddress {
			continue
		}
		if p, ok := d.tracker.Get(roomID, info.UserAddress); ok {
			p.Client.enqueue(data)
		}
	}
}

func (d *Dispatcher) identityMatches(c *Client, claimed string) bool {
	return normalizeAddr(claimed) == c.Address
}

func (d *Dispatcher) sendError(c *Client, message string) {
	c.enqueue(marshalEvent(EventError, errorPayload{Message: message}))
}
