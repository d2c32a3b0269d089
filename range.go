package RangeGo

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DecisionKind 范围解析结果的种类
type DecisionKind uint8

const (
	// DecisionFull 未携带Range头，返回完整资源
	DecisionFull DecisionKind = iota
	// DecisionPartial 范围合法，返回206部分内容
	DecisionPartial
	// DecisionUnsatisfiable 范围数值越界，返回416
	DecisionUnsatisfiable
	// DecisionMalformed Range头无法解析，返回500
	DecisionMalformed
)

// Window 闭区间字节窗口 [Start, End]，两端均包含
type Window struct {
	Start int64
	End   int64
}

// Len 窗口覆盖的字节数
func (w Window) Len() int64 {
	return w.End - w.Start + 1
}

// Decision 单次请求的范围裁决结果
// Size 为资源总长度；Window 仅在 DecisionPartial 时有效；
// Err 仅在 DecisionMalformed 时携带解析失败原因
type Decision struct {
	Kind   DecisionKind
	Window Window
	Size   int64
	Err    error
}

const bytesPrefix = "bytes="

// ParseRange 把原始Range请求头解析成响应裁决
//
// 只支持单区间形式 bytes=<start>-<end>，start与end均可省略（不能同时省略）。
// 省略start按偏移0处理（沿用原始实现的字面算术，不是RFC 7233的
// 后缀长度语义），省略end按size-1处理。
// 多区间（逗号分隔）不在支持范围内，按Malformed处理。
func ParseRange(header string, size int64) Decision {
	if header == "" {
		return Decision{Kind: DecisionFull, Size: size}
	}

	if !strings.HasPrefix(header, bytesPrefix) {
		return Decision{
			Kind: DecisionMalformed,
			Size: size,
			Err:  errors.Errorf("unsupported range unit in %q", header),
		}
	}

	spec := strings.TrimPrefix(header, bytesPrefix)
	parts := strings.Split(spec, "-")
	if len(parts) != 2 {
		return Decision{
			Kind: DecisionMalformed,
			Size: size,
			Err:  errors.Errorf("range %q is not a single start-end pair", header),
		}
	}
	if parts[0] == "" && parts[1] == "" {
		return Decision{
			Kind: DecisionMalformed,
			Size: size,
			Err:  errors.Errorf("range %q has neither start nor end", header),
		}
	}

	// 省略的start落在0上，见函数头注释
	var start int64
	if parts[0] != "" {
		v, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return Decision{
				Kind: DecisionMalformed,
				Size: size,
				Err:  errors.Wrapf(err, "invalid range start %q", parts[0]),
			}
		}
		start = v
	}

	end := size - 1
	if parts[1] != "" {
		v, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Decision{
				Kind: DecisionMalformed,
				Size: size,
				Err:  errors.Wrapf(err, "invalid range end %q", parts[1]),
			}
		}
		end = v
	}

	// start==end 合法，表示单字节窗口
	if start >= size || end >= size || start > end {
		return Decision{Kind: DecisionUnsatisfiable, Size: size}
	}

	return Decision{
		Kind:   DecisionPartial,
		Window: Window{Start: start, End: end},
		Size:   size,
	}
}
