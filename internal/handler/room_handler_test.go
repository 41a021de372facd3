package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mentorly/internal/signaling"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
)

const (
	mentorAddr = "0xa11ce00000000000000000000000000000000001"
	menteeAddr = "0xb0b0000000000000000000000000000000000002"
	otherAddr  = "0xcafe000000000000000000000000000000000003"
)

func newRoomRig(callerAddr string) (*gin.Engine, *signaling.RoomRegistry, *signaling.ChatHistory) {
	gin.SetMode(gin.TestMode)
	registry := signaling.NewRoomRegistry([]webrtc.ICEServer{{URLs: []string{"stun:stun.test:3478"}}})
	tracker := signaling.NewParticipantTracker()
	history := signaling.NewChatHistory()
	h := NewRoomHandler(registry, tracker, history)

	r := gin.New()
	// Stand-in for AuthRequired: the caller is already authenticated.
	r.Use(func(c *gin.Context) { c.Set("address", callerAddr) })
	r.POST("/webrtc/rooms", h.Create)
	r.GET("/webrtc/rooms/:room_id", h.Get)
	return r, registry, history
}

func TestRoomHandler_CreateAndGet(t *testing.T) {
	r, _, _ := newRoomRig(mentorAddr)

	body := `{"sessionId":"sess-1","participants":["` + mentorAddr + `","` + menteeAddr + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/webrtc/rooms", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body)
	}
	var created struct {
		Room signaling.Room `json:"room"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.Room.ID == "" {
		t.Fatalf("bad create response: %s", w.Body)
	}

	req = httptest.NewRequest(http.MethodGet, "/webrtc/rooms/"+created.Room.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d: %s", w.Code, w.Body)
	}
	var got struct {
		Room         signaling.Room              `json:"room"`
		Participants []signaling.ParticipantInfo `json:"participants"`
		ChatMessages []signaling.ChatMessage     `json:"chatMessages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Room.SessionID != "sess-1" || len(got.Participants) != 0 || len(got.ChatMessages) != 0 {
		t.Fatalf("unexpected view: %s", w.Body)
	}
}

func TestRoomHandler_CreateRejectsOutsider(t *testing.T) {
	r, _, _ := newRoomRig(otherAddr)
	body := `{"sessionId":"sess-1","participants":["` + mentorAddr + `","` + menteeAddr + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/webrtc/rooms", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRoomHandler_CreateValidation(t *testing.T) {
	r, _, _ := newRoomRig(mentorAddr)

	// Fewer than two participants.
	body := `{"sessionId":"sess-1","participants":["` + mentorAddr + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/webrtc/rooms", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short allow-list, got %d", w.Code)
	}

	// Malformed address.
	body = `{"sessionId":"sess-1","participants":["` + mentorAddr + `","bogus"]}`
	req = httptest.NewRequest(http.MethodPost, "/webrtc/rooms", strings.NewReader(body))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad address, got %d", w.Code)
	}
}

func TestRoomHandler_GetUnknownRoom(t *testing.T) {
	r, _, _ := newRoomRig(mentorAddr)
	req := httptest.NewRequest(http.MethodGet, "/webrtc/rooms/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRoomHandler_GetRejectsNonParticipant(t *testing.T) {
	r, registry, _ := newRoomRig(otherAddr)
	room, _ := registry.CreateRoom("sess-1", []string{mentorAddr, menteeAddr})
	req := httptest.NewRequest(http.MethodGet, "/webrtc/rooms/"+room.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
