package RangeGo

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HandlerFunc 请求处理函数
type HandlerFunc func(*Context)

// Context 请求上下文
type Context struct {
	// 原始 HTTP 对象
	Request *http.Request
	Writer  http.ResponseWriter

	// 请求信息
	method    string
	path      string
	clientIP  string
	userAgent string

	// 响应信息
	statusCode int
	written    bool
	bytesSent  int64

	// 处理器链
	handlers []HandlerFunc
	index    int

	// 执行控制
	aborted bool

	// 性能追踪
	startTime time.Time
	requestID string

	// 流式传输的分块大小，由core在取出时注入
	chunkSize int
}

// NewContext 创建请求上下文
func NewContext(writer http.ResponseWriter, request *http.Request) *Context {
	c := &Context{chunkSize: DefaultChunkSize}
	if request != nil {
		c.Reset(writer, request)
	}
	return c
}

// Reset 复位上下文以复用（池化场景）
func (c *Context) Reset(writer http.ResponseWriter, request *http.Request) {
	c.Request = request
	c.Writer = writer
	c.method = request.Method
	c.path = request.URL.Path
	c.clientIP = resolveClientIP(request)
	c.userAgent = request.UserAgent()
	c.statusCode = 0
	c.written = false
	c.bytesSent = 0
	c.handlers = nil
	c.index = -1
	c.aborted = false
	c.startTime = time.Now()
	c.requestID = request.Header.Get("X-Request-Id")
	if c.requestID == "" {
		c.requestID = uuid.NewString()
	}
}

// SetHandles 设置处理器链
func (c *Context) SetHandles(handlers []HandlerFunc) {
	c.handlers = handlers
}

// Next 推进处理器链
func (c *Context) Next() {
	c.index++
	s := len(c.handlers)
	for ; c.index < s && !c.aborted; c.index++ {
		c.handlers[c.index](c)
	}
}

// Abort 终止后续处理器
func (c *Context) Abort() {
	c.aborted = true
}

// IsAborted 是否已终止
func (c *Context) IsAborted() bool {
	return c.aborted
}

// Method 请求方法
func (c *Context) Method() string {
	return c.method
}

// Path 请求路径
func (c *Context) Path() string {
	return c.path
}

// ClientIP 客户端IP（处理反向代理）
func (c *Context) ClientIP() string {
	return c.clientIP
}

// UserAgent 客户端UA
func (c *Context) UserAgent() string {
	return c.userAgent
}

// RequestID 请求标识，透传X-Request-Id，缺省时自动生成
func (c *Context) RequestID() string {
	return c.requestID
}

// StatusCode 已写入的响应状态码
func (c *Context) StatusCode() int {
	return c.statusCode
}

// BytesSent 已写入响应体的字节数
func (c *Context) BytesSent() int64 {
	return c.bytesSent
}

// Elapsed 请求开始以来的耗时
func (c *Context) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// GetHeader 读取请求头
func (c *Context) GetHeader(key string) string {
	return c.Request.Header.Get(key)
}

// RangeHeader 读取Range请求头原始值
func (c *Context) RangeHeader() string {
	return c.Request.Header.Get("Range")
}

// SetHeader 设置响应头
func (c *Context) SetHeader(key, value string) {
	c.Writer.Header().Set(key, value)
}

// WriteHeader 写入状态行，重复调用只生效一次
func (c *Context) WriteHeader(code int) {
	if c.written {
		return
	}
	c.statusCode = code
	c.written = true
	c.Writer.WriteHeader(code)
}

// Write 写入响应体并累计发送字节数
func (c *Context) Write(p []byte) (int, error) {
	if !c.written {
		c.WriteHeader(http.StatusOK)
	}
	n, err := c.Writer.Write(p)
	c.bytesSent += int64(n)
	return n, err
}

// Data 按指定Content-Type发送字节数据
func (c *Context) Data(code int, contentType string, data []byte) {
	c.SetHeader("Content-Type", contentType)
	c.WriteHeader(code)
	_, _ = c.Write(data)
}

// SendString 发送纯文本响应
func (c *Context) SendString(code int, body string) {
	c.Data(code, "text/plain; charset=utf-8", []byte(body))
}

// SendJSON 发送JSON响应
func (c *Context) SendJSON(code int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.InternalServerError(err.Error())
		return
	}
	c.Data(code, "application/json; charset=utf-8", data)
}

// Redirect 重定向
func (c *Context) Redirect(code int, location string) {
	c.SetHeader("Location", location)
	c.WriteHeader(code)
}

// NotFound 发送404响应
func (c *Context) NotFound(message string) {
	c.SendString(http.StatusNotFound, message)
	c.Abort()
}

// MethodNotAllowed 发送405响应
func (c *Context) MethodNotAllowed(message string) {
	c.SetHeader("Allow", "GET, OPTIONS")
	c.SendString(http.StatusMethodNotAllowed, message)
	c.Abort()
}

// InternalServerError 发送500响应
func (c *Context) InternalServerError(message string) {
	c.SendString(http.StatusInternalServerError, message)
	c.Abort()
}

// resolveClientIP 解析真实客户端IP，优先透传头，回退RemoteAddr
func resolveClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if rip := r.Header.Get("X-Real-Ip"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
