package handler

import (
	"bytes"
	"io"
	"net/http"

	"mentorly/config"

	"github.com/gin-gonic/gin"
)

const maxRPCBodyBytes = 1 << 20

// RPCHandler forwards JSON-RPC requests to the configured blockchain node
// so clients never need node credentials of their own. Bodies pass through
// untouched.
type RPCHandler struct {
	nodeURL string
	client  *http.Client
}

func NewRPCHandler(cfg *config.RPCConfig) *RPCHandler {
	return &RPCHandler{
		nodeURL: cfg.NodeURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (h *RPCHandler) Proxy(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRPCBodyBytes))
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty or unreadable body"})
		return
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.nodeURL, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build upstream request"})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "rpc node unreachable"})
		return
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "rpc node response unreadable"})
		return
	}
	c.Data(resp.StatusCode, "application/json", out)
}
