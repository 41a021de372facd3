package handler

import (
	"errors"
	"net/http"
	"strings"

	"mentorly/config"
	"mentorly/internal/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cfg      *config.Config
	nonces   *auth.NonceStore
	verifier auth.Verifier
}

func NewAuthHandler(cfg *config.Config, nonces *auth.NonceStore, verifier auth.Verifier) *AuthHandler {
	return &AuthHandler{cfg: cfg, nonces: nonces, verifier: verifier}
}

// Nonce issues a single-use SIWE nonce for the address to embed in its
// sign-in message.
func (h *AuthHandler) Nonce(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address required"})
		return
	}
	if !auth.ValidAddress(req.Address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nonce": h.nonces.Issue(req.Address)})
}

// Login verifies a signed SIWE message through the external verifier and
// mints the session token used for REST calls and the signaling handshake.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Address   string `json:"address" binding:"required"`
		Message   string `json:"message" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address, message and signature required"})
		return
	}
	if !auth.ValidAddress(req.Address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}
	nonce, ok := h.nonces.Consume(req.Address)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "nonce not issued or expired"})
		return
	}
	if !strings.Contains(req.Message, nonce) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "nonce mismatch"})
		return
	}
	if err := h.verifier.Verify(c.Request.Context(), req.Address, req.Message, req.Signature); err != nil {
		if errors.Is(err, auth.ErrVerificationFailed) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "verification service unavailable"})
		return
	}
	token, err := auth.GenerateAccessToken(&h.cfg.JWT, req.Address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"address":    auth.NormalizeAddress(req.Address),
		"expires_in": int(h.cfg.JWT.AccessExpiry.Seconds()),
	})
}
