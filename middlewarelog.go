package RangeGo

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// MiddlewareLog 访问日志中间件
type MiddlewareLog struct {
	logger *logrus.Logger
}

// NewMiddlewareLog 创建访问日志中间件
func NewMiddlewareLog(logger *logrus.Logger) *MiddlewareLog {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MiddlewareLog{logger: logger}
}

// Handle 采集并打印单次请求的访问日志
func (m *MiddlewareLog) Handle(c *Context) {
	c.Next()

	entry := m.logger.WithFields(logrus.Fields{
		"request_id": c.RequestID(),
		"method":     c.Method(),
		"path":       c.Path(),
		"client_ip":  c.ClientIP(),
		"status":     c.StatusCode(),
		"bytes":      c.BytesSent(),
		"elapsed_ms": float64(c.Elapsed().Nanoseconds()) / 1e6,
		"user_agent": c.UserAgent(),
	})

	if c.StatusCode() >= http.StatusInternalServerError {
		entry.Warn("request failed")
		return
	}
	entry.Info("request served")
}
