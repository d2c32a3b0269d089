package RangeGo

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RangeReader 断点续传数据源通用接口
// 任意存储类型（本地文件/对象存储/内存）只需实现此接口，即可支持断点续传
type RangeReader interface {
	// Size 返回数据总大小（字节）
	Size() int64

	// ReadRange 读取指定范围的数据 [start, end]（包含end）
	// 返回：数据读取器、读取长度、错误
	ReadRange(ctx context.Context, start, end int64) (io.Reader, int64, error)

	// Name 返回数据名称
	Name() string

	// ContentType 返回数据的MIME类型
	ContentType() string
}

// FileRangeReader 本地文件的 RangeReader 实现
// 文件句柄在整个响应期间保持打开，调用方负责 Close
type FileRangeReader struct {
	path string
	file *os.File
	size int64
}

// NewFileRangeReader 打开本地文件并构造 FileRangeReader
func NewFileRangeReader(path string) (*FileRangeReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, errors.Errorf("%s is a directory", path)
	}
	return &FileRangeReader{
		path: path,
		file: file,
		size: info.Size(),
	}, nil
}

// Size 返回文件大小
func (fr *FileRangeReader) Size() int64 {
	return fr.size
}

// Name 返回文件名
func (fr *FileRangeReader) Name() string {
	return filepath.Base(fr.path)
}

// ContentType 按扩展名推断MIME类型，未知类型回退 application/octet-stream
func (fr *FileRangeReader) ContentType() string {
	if ct := mime.TypeByExtension(filepath.Ext(fr.path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ReadRange 定位到start并返回限长读取器，窗口为 [start, end] 闭区间
func (fr *FileRangeReader) ReadRange(ctx context.Context, start, end int64) (io.Reader, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if start < 0 || end >= fr.size || start > end {
		return nil, 0, errors.Errorf("range %d-%d out of bounds for %s (%d bytes)", start, end, fr.path, fr.size)
	}
	if _, err := fr.file.Seek(start, io.SeekStart); err != nil {
		return nil, 0, errors.Wrapf(err, "seek %s to %d", fr.path, start)
	}
	length := end - start + 1
	return io.LimitReader(fr.file, length), length, nil
}

// Close 释放底层文件句柄
func (fr *FileRangeReader) Close() error {
	return fr.file.Close()
}

// throttledReader 按令牌桶限速的读取器
type throttledReader struct {
	ctx     context.Context
	inner   io.Reader
	limiter *rate.Limiter
}

func (t *throttledReader) Read(p []byte) (int, error) {
	n, err := t.inner.Read(p)
	// 单次读块可能大于突发额度，分段扣减令牌，WaitN单次不得超过burst
	burst := t.limiter.Burst()
	for waited := 0; waited < n; {
		step := n - waited
		if step > burst {
			step = burst
		}
		if waitErr := t.limiter.WaitN(t.ctx, step); waitErr != nil {
			return n, waitErr
		}
		waited += step
	}
	return n, err
}

// ThrottledRangeReader 在任意 RangeReader 之上叠加带宽限制
type ThrottledRangeReader struct {
	inner   RangeReader
	limiter *rate.Limiter
}

// Throttle 包装 reader，限制读取速率为 bytesPerSec 字节每秒
// bytesPerSec <= 0 时不限速，原样返回
func Throttle(reader RangeReader, bytesPerSec int) RangeReader {
	if bytesPerSec <= 0 {
		return reader
	}
	return &ThrottledRangeReader{
		inner:   reader,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

// Size 返回底层数据大小
func (tr *ThrottledRangeReader) Size() int64 {
	return tr.inner.Size()
}

// Name 返回底层数据名称
func (tr *ThrottledRangeReader) Name() string {
	return tr.inner.Name()
}

// ContentType 返回底层数据MIME类型
func (tr *ThrottledRangeReader) ContentType() string {
	return tr.inner.ContentType()
}

// ReadRange 读取指定范围并按配置限速
func (tr *ThrottledRangeReader) ReadRange(ctx context.Context, start, end int64) (io.Reader, int64, error) {
	inner, length, err := tr.inner.ReadRange(ctx, start, end)
	if err != nil {
		return nil, 0, err
	}
	return &throttledReader{ctx: ctx, inner: inner, limiter: tr.limiter}, length, nil
}
