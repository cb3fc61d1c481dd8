package api

import (
	"net/http"
	"time"

	"agricultura_dapp/internal/metrics"
	"agricultura_dapp/internal/service"
	"agricultura_dapp/internal/wallet"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionHeader = "X-Session-Token"

// Server 使用 Gin 暴露页面、钱包会话、角色检查与审计接口。
type Server struct {
	engine    *gin.Engine
	connector *wallet.Connector
	roleSvc   *service.RoleService
	auditSvc  *service.AuditService
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewServer(connector *wallet.Connector, roles *service.RoleService, audit *service.AuditService, m *metrics.Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))
	s := &Server{
		engine:    engine,
		connector: connector,
		roleSvc:   roles,
		auditSvc:  audit,
		metrics:   m,
		log:       log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.registerPages()

	s.engine.POST("/wallet/challenge", s.handleChallenge)
	s.engine.POST("/wallet/connect", s.handleConnect)
	s.engine.POST("/wallet/disconnect", s.handleDisconnect)

	s.engine.GET("/roles/:name", s.handleRoleID)
	s.engine.POST("/roles/:name/check", s.handleCheckRole)
	s.engine.POST("/admin/check-role", s.handleCheckAdmin)

	s.engine.GET("/audit/:index", s.handleAuditEntry)

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	})
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// NewHTTPServer 包装 engine，便于调用方优雅关闭。
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
