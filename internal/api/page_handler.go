package api

import (
	"net/http"

	"agricultura_dapp/internal/types"

	"github.com/gin-gonic/gin"
)

// 页面为静态路径映射，不做角色拦截
func (s *Server) registerPages() {
	for _, p := range types.Pages {
		page := p
		s.engine.GET(page.Path, func(c *gin.Context) {
			c.JSON(http.StatusOK, page)
		})
	}
}
