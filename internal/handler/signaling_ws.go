package handler

import (
	"net/http"
	"time"

	"mentorly/config"
	"mentorly/internal/auth"
	"mentorly/internal/signaling"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	signalingWriteWait  = 10 * time.Second
	signalingPongWait   = 60 * time.Second
	signalingPingPeriod = (signalingPongWait * 9) / 10
)

var signalingUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeSignalingWS authenticates the handshake and hands the connection
// to the dispatcher. Query: token, userAddress. The connection is never
// admitted half-authenticated: credential checks happen before the
// upgrade, and the address stamped here is the only identity the
// dispatcher will trust for this socket.
func UpgradeSignalingWS(cfg *config.JWTConfig, dispatcher *signaling.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		userAddress := c.Query("userAddress")
		if token == "" || userAddress == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "authentication required"})
			return
		}
		if !auth.ValidAddress(userAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials format"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		if auth.NormalizeAddress(userAddress) != claims.Address {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "address mismatch"})
			return
		}

		conn, err := signalingUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := signaling.NewClient(claims.Address)
		defer client.Close()

		conn.SetReadDeadline(time.Now().Add(signalingPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(signalingPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(signalingPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					conn.SetWriteDeadline(time.Now().Add(signalingWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(signalingWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			dispatcher.Dispatch(client, raw)
		}
		dispatcher.Disconnect(client)
	}
}
