package RangeGo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRangeNoHeader(t *testing.T) {
	d := ParseRange("", 1000)
	assert.Equal(t, DecisionFull, d.Kind)
	assert.Equal(t, int64(1000), d.Size)
}

func TestParseRangeValid(t *testing.T) {
	tests := []struct {
		name   string
		header string
		size   int64
		start  int64
		end    int64
	}{
		{"both bounds", "bytes=0-499", 1000, 0, 499},
		{"interior window", "bytes=200-299", 1000, 200, 299},
		{"open ended", "bytes=100-", 1000, 100, 999},
		{"to last byte", "bytes=0-999", 1000, 0, 999},
		{"single byte", "bytes=42-42", 1000, 42, 42},
		{"first byte", "bytes=0-0", 1000, 0, 0},
		// 省略start按偏移0处理（沿用原始实现算术，非RFC后缀语义）
		{"blank start is offset zero", "bytes=-500", 1000, 0, 500},
		{"whole file open ended", "bytes=0-", 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseRange(tt.header, tt.size)
			assert.Equal(t, DecisionPartial, d.Kind)
			assert.Equal(t, tt.start, d.Window.Start)
			assert.Equal(t, tt.end, d.Window.End)
			assert.Equal(t, tt.size, d.Size)
		})
	}
}

func TestParseRangeUnsatisfiable(t *testing.T) {
	tests := []struct {
		name   string
		header string
		size   int64
	}{
		{"start at size", "bytes=1000-", 1000},
		{"start past size", "bytes=5000-6000", 1000},
		{"end at size", "bytes=0-1000", 1000},
		{"inverted bounds", "bytes=500-499", 1000},
		{"empty resource", "bytes=0-0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseRange(tt.header, tt.size)
			assert.Equal(t, DecisionUnsatisfiable, d.Kind)
			assert.Equal(t, tt.size, d.Size)
		})
	}
}

func TestParseRangeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"non numeric bounds", "bytes=abc-def"},
		{"non numeric start", "bytes=abc-100"},
		{"non numeric end", "bytes=100-def"},
		{"both bounds blank", "bytes=-"},
		{"three parts", "bytes=1-2-3"},
		{"no dash", "bytes=100"},
		{"wrong unit", "items=0-10"},
		{"missing prefix", "0-10"},
		{"multi range", "bytes=0-10,20-30"},
		{"float bound", "bytes=1.5-9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseRange(tt.header, 1000)
			assert.Equal(t, DecisionMalformed, d.Kind)
			assert.Error(t, d.Err)
		})
	}
}

func TestWindowLen(t *testing.T) {
	assert.Equal(t, int64(1), Window{Start: 0, End: 0}.Len())
	assert.Equal(t, int64(500), Window{Start: 100, End: 599}.Len())
}
