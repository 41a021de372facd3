package handler

import (
	"errors"
	"net/http"

	"mentorly/internal/auth"
	"mentorly/internal/middleware"
	"mentorly/internal/signaling"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	registry *signaling.RoomRegistry
	tracker  *signaling.ParticipantTracker
	history  *signaling.ChatHistory
}

func NewRoomHandler(registry *signaling.RoomRegistry, tracker *signaling.ParticipantTracker, history *signaling.ChatHistory) *RoomHandler {
	return &RoomHandler{registry: registry, tracker: tracker, history: history}
}

// Create provisions a signaling room for a confirmed booking. The caller
// must be one of the room's participants.
func (h *RoomHandler) Create(c *gin.Context) {
	var req struct {
		SessionID    string   `json:"sessionId" binding:"required"`
		Participants []string `json:"participants" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and participants required"})
		return
	}
	for _, p := range req.Participants {
		if !auth.ValidAddress(p) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participant address"})
			return
		}
	}
	caller := middleware.GetAddress(c)
	isParty := false
	for _, p := range req.Participants {
		if auth.NormalizeAddress(p) == caller {
			isParty = true
			break
		}
	}
	if !isParty {
		c.JSON(http.StatusForbidden, gin.H{"error": "caller must be a room participant"})
		return
	}
	room, err := h.registry.CreateRoom(req.SessionID, req.Participants)
	if err != nil {
		if errors.Is(err, signaling.ErrTooFewParticipants) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room": room})
}

func (h *RoomHandler) Get(c *gin.Context) {
	roomID := c.Param("room_id")
	room, ok := h.registry.GetRoom(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if !room.Allowed(middleware.GetAddress(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a room participant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room":         room,
		"participants": h.tracker.List(roomID),
		"chatMessages": h.history.Get(roomID),
	})
}
