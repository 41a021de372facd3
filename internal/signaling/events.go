package signaling

import (
	"encoding/json"
	"time"

	"github.com/pion/webrtc/v4"
)

// Inbound event names. The dispatcher handles exactly this set; anything
// else gets an error event back.
const (
	EventJoinRoom         = "join-room"
	EventLeaveRoom        = "leave-room"
	EventWebRTCSignal     = "webrtc-signal"
	EventChatMessage      = "chat-message"
	EventMediaStateChange = "media-state-change"
	EventScreenShare      = "screen-share"
)

// Outbound event names.
const (
	EventRoomJoined         = "room-joined"
	EventUserJoined         = "user-joined"
	EventUserLeft           = "user-left"
	EventChatMessageSent    = "chat-message-sent"
	EventMediaStateChanged  = "media-state-changed"
	EventScreenShareChanged = "screen-share-changed"
	EventError              = "error"
)

// envelope is the wire frame: {"event": "...", "data": {...}}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRoomEvent struct {
	RoomID      string `json:"roomId"`
	UserAddress string `json:"userAddress"`
}

type leaveRoomEvent struct {
	RoomID      string `json:"roomId"`
	UserAddress string `json:"userAddress"`
}

// signalEvent relays SDP offers/answers and ICE candidates. Payload is
// opaque; only the envelope fields are inspected.
type signalEvent struct {
	RoomID  string          `json:"roomId"`
	To      string          `json:"to,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type chatMessageEvent struct {
	RoomID  string `json:"roomId"`
	From    string `json:"from"`
	Message string `json:"message"`
}

type mediaStateChangeEvent struct {
	RoomID      string     `json:"roomId"`
	UserAddress string     `json:"userAddress"`
	MediaState  MediaState `json:"mediaState"`
}

type screenShareEvent struct {
	RoomID      string `json:"roomId"`
	UserAddress string `json:"userAddress"`
	Sharing     bool   `json:"sharing"`
}

// MediaState is replaced wholesale on media-state-change, never merged.
type MediaState struct {
	Video       bool `json:"video"`
	Audio       bool `json:"audio"`
	ScreenShare bool `json:"screenShare"`
}

// ParticipantInfo is the externally visible view of a participant.
// Connection handles never leave the tracker.
type ParticipantInfo struct {
	UserAddress string     `json:"userAddress"`
	MediaState  MediaState `json:"mediaState"`
	JoinedAt    time.Time  `json:"joinedAt"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	From      string    `json:"from"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type roomJoinedPayload struct {
	RoomID       string             `json:"roomId"`
	Config       rtcConfig          `json:"config"`
	Participants []ParticipantInfo  `json:"participants"`
	ChatHistory  []ChatMessage      `json:"chatHistory"`
}

type rtcConfig struct {
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

type userJoinedPayload struct {
	UserAddress  string            `json:"userAddress"`
	Participants []ParticipantInfo `json:"participants"`
}

type userLeftPayload struct {
	UserAddress  string            `json:"userAddress"`
	Participants []ParticipantInfo `json:"participants"`
}

type signalRelayPayload struct {
	RoomID    string          `json:"roomId"`
	From      string          `json:"from"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type mediaStateChangedPayload struct {
	UserAddress string     `json:"userAddress"`
	MediaState  MediaState `json:"mediaState"`
}

type screenShareChangedPayload struct {
	UserAddress string `json:"userAddress"`
	Sharing     bool   `json:"sharing"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func marshalEvent(event string, data interface{}) []byte {
	raw, _ := json.Marshal(data)
	out, _ := json.Marshal(envelope{Event: event, Data: raw})
	return out
}
