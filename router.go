package RangeGo

import (
	"net/http"
	"strings"
)

// Router 路由器
//
// 文件服务器的URL空间就是文件系统本身，所以路由退化为
// 少量保留端点的精确/前缀匹配，其余请求全部落到兜底处理器（静态文件服务）。
type Router struct {
	exact    map[string]HandlerFunc
	prefixes map[string]HandlerFunc
	fallback HandlerFunc
}

// NewRouter 创建路由器
func NewRouter() *Router {
	return &Router{
		exact:    make(map[string]HandlerFunc),
		prefixes: make(map[string]HandlerFunc),
	}
}

// GET 注册保留端点（精确匹配，仅GET）
func (r *Router) GET(path string, handler HandlerFunc) {
	r.exact[path] = handler
}

// Mount 注册前缀端点（如 /swagger/ 下的全部路径）
func (r *Router) Mount(prefix string, handler HandlerFunc) {
	r.prefixes[prefix] = handler
}

// SetFallback 设置兜底处理器，未命中保留端点的GET请求全部交给它
func (r *Router) SetFallback(handler HandlerFunc) {
	r.fallback = handler
}

// Handle 请求分发
// OPTIONS预检在CORS中间件应答，到不了这里；非GET一律405
func (r *Router) Handle(c *Context) {
	if c.Method() != http.MethodGet {
		c.MethodNotAllowed("method not allowed")
		return
	}

	if handler, ok := r.exact[c.Path()]; ok {
		handler(c)
		return
	}
	for prefix, handler := range r.prefixes {
		if strings.HasPrefix(c.Path(), prefix) {
			handler(c)
			return
		}
	}

	if r.fallback != nil {
		r.fallback(c)
		return
	}
	c.NotFound("404 Not Found")
}
