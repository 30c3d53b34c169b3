package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vtp-api/internal/auth"
	"vtp-api/internal/config"
	"vtp-api/internal/instrument"
	"vtp-api/internal/prices"
	"vtp-api/internal/queue"
	"vtp-api/internal/sizing"
)

// Handlers 聚合 HTTP 层依赖。
type Handlers struct {
	queue  *queue.Service
	prices *prices.Cache
	logger *zap.Logger
}

// NewRouter 组装路由。peek/ack 经过认证门；计划创建与只读端点保持开放。
func NewRouter(q *queue.Service, priceCache *prices.Cache, gate *auth.Gate, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware(cfg.CORSOrigins))

	h := &Handlers{queue: q, prices: priceCache, logger: logger}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/instruments", h.listInstruments)

	r.POST("/sizing/calc", h.calcSizing)
	r.POST("/copy/preview", h.copyPreview)
	r.POST("/copy/queue", h.createPlan)

	guarded := r.Group("/queue", gate.Middleware())
	guarded.GET("/peek", h.peekQueue)
	guarded.POST("/ack", h.ackItem)

	r.GET("/queue/status", h.planStatus)

	r.POST("/prices/ingest", h.ingestPrice)
	r.GET("/prices/latest", h.latestPrice)

	return r
}

func (h *Handlers) listInstruments(c *gin.Context) {
	c.JSON(http.StatusOK, instrument.Builtins())
}

// writeError 把领域错误映射为 HTTP 状态码。
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, queue.ErrKillSwitch):
		status = http.StatusServiceUnavailable
	case errors.Is(err, queue.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, queue.ErrValidation), errors.Is(err, sizing.ErrConfig):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// corsMiddleware 按配置的来源列表回写 CORS 头，并直接应答预检请求。
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, "+auth.HeaderAPIKey)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
