package RangeGo

import (
	"net/http"
	"strings"
)

// CorsConfig 跨域配置
type CorsConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// NewCors 创建默认跨域配置：允许任意来源用GET/OPTIONS携带Range访问
// 面向浏览器拖动播放媒体的场景，默认全放开
func NewCors() *CorsConfig {
	return &CorsConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Range"},
	}
}

// Handle 跨域中间件
// 在链路最前端给每一个响应注入CORS头（含错误页和目录页），
// 并直接应答OPTIONS预检：200、无响应体
func (cc *CorsConfig) Handle(c *Context) {
	c.SetHeader("Access-Control-Allow-Origin", strings.Join(cc.AllowOrigins, ", "))
	c.SetHeader("Access-Control-Allow-Methods", strings.Join(cc.AllowMethods, ", "))
	c.SetHeader("Access-Control-Allow-Headers", strings.Join(cc.AllowHeaders, ", "))

	if c.Method() == http.MethodOptions {
		c.WriteHeader(http.StatusOK)
		c.Abort()
		return
	}

	c.Next()
}
