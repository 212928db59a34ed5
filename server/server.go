// Package server 暴露推荐引擎的 HTTP 接口（gin）。
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/engine"
)

// Server 把多个域引擎挂到同一个 HTTP 进程上。
type Server struct {
	engines map[core.Domain]*engine.Engine
	logger  *zap.Logger
	router  *gin.Engine
}

func New(engines map[core.Domain]*engine.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engines: engines,
		logger:  logger,
		router:  gin.New(),
	}
	s.router.Use(gin.Recovery(), s.accessLog())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/:domain")
	api.POST("/interactions", s.handleRecordInteraction)
	api.GET("/recommendations/:user_id", s.handleRecommend)
	api.GET("/popular", s.handlePopular)
	api.GET("/history/:user_id", s.handleHistory)
	api.GET("/analytics", s.handleAnalytics)
}

// Run 启动 HTTP 服务，阻塞直到出错。
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Handler 暴露底层 http.Handler（测试用）。
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()))
	}
}

// engineOf 按路径参数找域引擎，找不到返回 404。
func (s *Server) engineOf(c *gin.Context) (*engine.Engine, bool) {
	domain := core.Domain(c.Param("domain"))
	eng, ok := s.engines[domain]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "unknown domain: " + string(domain),
		})
		return nil, false
	}
	return eng, true
}

// fail 把领域错误映射到 HTTP 状态码。
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsValidation(err):
		status = http.StatusBadRequest
	case core.IsNotFound(err):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	for domain, eng := range s.engines {
		if !eng.IsReady() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "engine not ready: " + string(domain),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}
