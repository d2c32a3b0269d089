package RangeGo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memReader 测试用内存 RangeReader
type memReader struct {
	name string
	data []byte
}

func (m *memReader) Size() int64 {
	return int64(len(m.data))
}

func (m *memReader) Name() string {
	return m.name
}

func (m *memReader) ContentType() string {
	return "application/octet-stream"
}

func (m *memReader) ReadRange(ctx context.Context, start, end int64) (io.Reader, int64, error) {
	return bytes.NewReader(m.data[start : end+1]), end - start + 1, nil
}

// errReader 数据源打开即失败的 RangeReader
type errReader struct {
	size int64
}

func (e *errReader) Size() int64 {
	return e.size
}

func (e *errReader) Name() string {
	return "broken.bin"
}

func (e *errReader) ContentType() string {
	return "application/octet-stream"
}

func (e *errReader) ReadRange(ctx context.Context, start, end int64) (io.Reader, int64, error) {
	return nil, 0, errors.New("backing store unavailable")
}

func newTestContext(method, target, rangeHeader string) (*Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	return NewContext(rec, req), rec
}

func sequence(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestServeRangeFull(t *testing.T) {
	data := sequence(1000)
	reader := &memReader{name: "blob.bin", data: data}
	c, rec := newTestContext(http.MethodGet, "/blob.bin", "")

	c.ServeRange(context.Background(), reader)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1000", rec.Header().Get("Content-Length"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, data, rec.Body.Bytes())
}

func TestServeRangeFullEmptyResource(t *testing.T) {
	reader := &memReader{name: "empty.bin"}
	c, rec := newTestContext(http.MethodGet, "/empty.bin", "")

	c.ServeRange(context.Background(), reader)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.Bytes())
}

// 数据源打开失败时退成500，不得残留指向完整资源的框架头
func TestServeRangeFullReadFailure(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/broken.bin", "")

	c.ServeRange(context.Background(), &errReader{size: 1000})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Header().Get("Accept-Ranges"))
	assert.Contains(t, rec.Body.String(), "backing store unavailable")
}

func TestServeRangePartialReadFailure(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/broken.bin", "bytes=0-99")

	c.ServeRange(context.Background(), &errReader{size: 1000})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Range"))
	assert.Contains(t, rec.Body.String(), "backing store unavailable")
}

func TestServeRangePartial(t *testing.T) {
	data := sequence(1000)
	reader := &memReader{name: "blob.bin", data: data}

	tests := []struct {
		name   string
		header string
		start  int64
		end    int64
	}{
		{"interior window", "bytes=100-199", 100, 199},
		{"open ended", "bytes=100-", 100, 999},
		{"blank start is offset zero", "bytes=-500", 0, 500},
		{"single byte", "bytes=42-42", 42, 42},
		{"last byte", "bytes=999-999", 999, 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/blob.bin", tt.header)
			c.ServeRange(context.Background(), reader)

			wantLen := tt.end - tt.start + 1
			assert.Equal(t, http.StatusPartialContent, rec.Code)
			assert.Equal(t, fmt.Sprintf("%d", wantLen), rec.Header().Get("Content-Length"))
			assert.Equal(t, fmt.Sprintf("bytes %d-%d/1000", tt.start, tt.end), rec.Header().Get("Content-Range"))
			assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
			assert.Equal(t, data[tt.start:tt.end+1], rec.Body.Bytes())
		})
	}
}

func TestServeRangeUnsatisfiable(t *testing.T) {
	reader := &memReader{name: "blob.bin", data: sequence(1000)}

	for _, header := range []string{"bytes=1000-", "bytes=0-1000", "bytes=500-499"} {
		c, rec := newTestContext(http.MethodGet, "/blob.bin", header)
		c.ServeRange(context.Background(), reader)

		assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, rec.Code, header)
		assert.Equal(t, "bytes */1000", rec.Header().Get("Content-Range"), header)
	}
}

func TestServeRangeMalformed(t *testing.T) {
	reader := &memReader{name: "blob.bin", data: sequence(1000)}
	c, rec := newTestContext(http.MethodGet, "/blob.bin", "bytes=abc-def")

	c.ServeRange(context.Background(), reader)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "abc")
}

// 逐窗口顺序请求并拼接响应体，必须精确还原原始字节序列
func TestServeRangeRoundTrip(t *testing.T) {
	data := sequence(1000)
	reader := &memReader{name: "blob.bin", data: data}

	const window = 77
	var rebuilt []byte
	for start := 0; start < len(data); start += window {
		end := start + window - 1
		if end >= len(data) {
			end = len(data) - 1
		}
		c, rec := newTestContext(http.MethodGet, "/blob.bin", fmt.Sprintf("bytes=%d-%d", start, end))
		c.ServeRange(context.Background(), reader)

		require.Equal(t, http.StatusPartialContent, rec.Code)
		rebuilt = append(rebuilt, rec.Body.Bytes()...)
	}

	assert.Equal(t, data, rebuilt)
}

// 窗口跨越多个分块时写出顺序必须严格递增且无缺漏
func TestServeRangeSpansChunks(t *testing.T) {
	data := sequence(3 * DefaultChunkSize)
	reader := &memReader{name: "blob.bin", data: data}
	c, rec := newTestContext(http.MethodGet, "/blob.bin", fmt.Sprintf("bytes=100-%d", 2*DefaultChunkSize+50))

	c.ServeRange(context.Background(), reader)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, data[100:2*DefaultChunkSize+51], rec.Body.Bytes())
}

func TestServeRangeCancelledContext(t *testing.T) {
	reader := &memReader{name: "blob.bin", data: sequence(1000)}
	c, rec := newTestContext(http.MethodGet, "/blob.bin", "bytes=0-999")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.ServeRange(ctx, reader)

	// 头已写出，但取消后不再写入任何正文
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}
