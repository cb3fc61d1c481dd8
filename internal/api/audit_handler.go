package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"agricultura_dapp/internal/store"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleAuditEntry(c *gin.Context) {
	idx, err := strconv.ParseUint(c.Param("index"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid index: %v", err)})
		return
	}
	entry, ev, err := s.auditSvc.GetEvent(idx)
	if errors.Is(err, store.ErrEntryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"index":      entry.Index,
		"prev_hash":  fmt.Sprintf("%x", entry.PrevHash),
		"entry_hash": fmt.Sprintf("%x", entry.EntryHash),
		"event":      ev,
	})
}
