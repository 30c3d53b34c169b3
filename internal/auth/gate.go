package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vtp-api/internal/config"
)

// HeaderAPIKey 是执行端在 peek/ack 上必须携带的凭证头。
const HeaderAPIKey = "X-EXEC-API-KEY"

// Gate 校验执行端共享密钥与可选的 IP 白名单。
// 计划创建端点有意不经过 Gate：提交计划比拉取/回执执行任务权限更低。
type Gate struct {
	apiKey     []byte
	allowedIPs map[string]struct{}
	logger     *zap.Logger
}

// NewGate 从队列配置构造认证门。
func NewGate(cfg config.QueueConfig, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedIPs))
	for _, ip := range cfg.AllowedIPs {
		if ip != "" {
			allowed[ip] = struct{}{}
		}
	}

	return &Gate{
		apiKey:     []byte(cfg.ExecAPIKey),
		allowedIPs: allowed,
		logger:     logger,
	}
}

// Middleware 返回 gin 中间件。校验失败时直接拒绝并返回不含细节的响应，
// 绝不记录后继续放行。
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader(HeaderAPIKey)
		if subtle.ConstantTimeCompare([]byte(supplied), g.apiKey) != 1 {
			g.logger.Warn("执行端凭证校验失败", zap.String("ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if len(g.allowedIPs) > 0 {
			if _, ok := g.allowedIPs[c.ClientIP()]; !ok {
				g.logger.Warn("执行端来源 IP 不在白名单内", zap.String("ip", c.ClientIP()))
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		c.Next()
	}
}
