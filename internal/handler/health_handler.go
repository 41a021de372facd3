package handler

import (
	"net/http"

	"mentorly/internal/signaling"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	registry *signaling.RoomRegistry
	tracker  *signaling.ParticipantTracker
}

func NewHealthHandler(registry *signaling.RoomRegistry, tracker *signaling.ParticipantTracker) *HealthHandler {
	return &HealthHandler{registry: registry, tracker: tracker}
}

func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"rooms":       h.registry.Count(),
		"connections": h.tracker.Connections(),
	})
}
