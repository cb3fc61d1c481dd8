package api

import (
	"errors"
	"net/http"

	"agricultura_dapp/internal/wallet"
	"agricultura_dapp/pkg/crypto"

	"github.com/gin-gonic/gin"
)

type challengeRequest struct {
	Address string `json:"address"`
}

type connectRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

func (s *Server) handleChallenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addr, err := crypto.ParseAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr.Hex(), "message": s.connector.Challenge(addr)})
}

func (s *Server) handleConnect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address and signature required"})
		return
	}
	addr, err := crypto.ParseAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := s.connector.Connect(addr, req.Signature)
	switch {
	case errors.Is(err, wallet.ErrNoChallenge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) handleDisconnect(c *gin.Context) {
	if !s.connector.Disconnect(c.GetHeader(sessionHeader)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
}
