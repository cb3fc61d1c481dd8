package api

import (
	"errors"
	"net/http"

	"agricultura_dapp/internal/chain"
	"agricultura_dapp/internal/service"
	"agricultura_dapp/pkg/crypto"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleRoleID(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{"role": name, "role_id": crypto.RoleID(name).Hex()})
}

// 管理面板按钮：成功时返回 alert，调用失败不返回 alert
func (s *Server) handleCheckAdmin(c *gin.Context) {
	sess := s.connector.Lookup(c.GetHeader(sessionHeader))
	msg, err := s.roleSvc.CheckAdmin(c.Request.Context(), sess)
	if err != nil {
		s.writeCheckError(c, err)
		return
	}
	status := http.StatusOK
	if msg == service.MsgConnectFirst {
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"alert": msg})
}

func (s *Server) handleCheckRole(c *gin.Context) {
	sess := s.connector.Lookup(c.GetHeader(sessionHeader))
	check, err := s.roleSvc.CheckRole(c.Request.Context(), sess, c.Param("name"))
	if errors.Is(err, service.ErrNotConnected) {
		c.JSON(http.StatusUnauthorized, gin.H{"alert": service.MsgConnectFirst})
		return
	}
	if err != nil {
		s.writeCheckError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (s *Server) writeCheckError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEmptyRole) || errors.Is(err, service.ErrRoleTooLong) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind := chain.KindOf(err)
	if kind == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": kind})
}
