package RangeGo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// DefaultChunkSize 流式传输的默认分块大小（字节）
const DefaultChunkSize = 8192

// ServeRange 按Range请求头把reader的内容写入响应
//
// 未携带Range头返回200完整内容；合法单区间返回206；
// 数值越界返回416并附带 Content-Range: bytes */<total>；
// 无法解析的Range头按服务端错误返回500，正文为解析失败原因。
// 完整与部分响应共用同一条分块写出路径，不会把整个资源读进内存。
func (c *Context) ServeRange(ctx context.Context, reader RangeReader) {
	size := reader.Size()
	decision := ParseRange(c.RangeHeader(), size)

	switch decision.Kind {
	case DecisionMalformed:
		c.InternalServerError(decision.Err.Error())

	case DecisionUnsatisfiable:
		c.SetHeader("Content-Range", fmt.Sprintf("bytes */%d", size))
		c.SendString(http.StatusRequestedRangeNotSatisfiable, "requested range not satisfiable")

	case DecisionFull:
		if size == 0 {
			c.SetHeader("Content-Type", reader.ContentType())
			c.SetHeader("Content-Length", "0")
			c.SetHeader("Accept-Ranges", "bytes")
			c.WriteHeader(http.StatusOK)
			return
		}
		// 框架头必须在数据源打开成功之后才写
		src, _, err := reader.ReadRange(ctx, 0, size-1)
		if err != nil {
			c.InternalServerError(err.Error())
			return
		}
		c.SetHeader("Content-Type", reader.ContentType())
		c.SetHeader("Content-Length", strconv.FormatInt(size, 10))
		c.SetHeader("Accept-Ranges", "bytes")
		c.WriteHeader(http.StatusOK)
		c.streamChunks(ctx, src)

	case DecisionPartial:
		window := decision.Window
		src, _, err := reader.ReadRange(ctx, window.Start, window.End)
		if err != nil {
			c.InternalServerError(err.Error())
			return
		}
		c.SetHeader("Content-Type", reader.ContentType())
		c.SetHeader("Content-Length", strconv.FormatInt(window.Len(), 10))
		c.SetHeader("Content-Range", fmt.Sprintf("bytes %d-%d/%d", window.Start, window.End, size))
		c.SetHeader("Accept-Ranges", "bytes")
		c.WriteHeader(http.StatusPartialContent)
		c.streamChunks(ctx, src)
	}
}

// streamChunks 把src分块写入响应体
// 客户端断开或上下文取消时静默终止，不作为处理器错误上抛
func (c *Context) streamChunks(ctx context.Context, src io.Reader) {
	chunk := c.chunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	flusher, _ := c.Writer.(http.Flusher)
	buf := make([]byte, chunk)
	for {
		if ctx.Err() != nil {
			return
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := c.Write(buf[:n]); writeErr != nil {
				defaultLogger.WithError(writeErr).Debug("client went away mid-stream")
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			if readErr != io.EOF && ctx.Err() == nil {
				defaultLogger.WithError(readErr).Warn("read failed mid-stream")
			}
			return
		}
	}
}
