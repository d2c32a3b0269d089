package RangeGo

import (
	"github.com/spf13/viper"
)

// Config 服务器配置
type Config struct {
	// Addr 监听地址，host可省略（":8080" 表示全地址）
	Addr string
	// Root 静态文件服务根目录
	Root string
	// ChunkSize 流式传输分块大小（字节）
	ChunkSize int
	// BandwidthLimit 单请求带宽上限（字节每秒），0表示不限速
	BandwidthLimit int
	// CertFile/KeyFile 同时配置时启用TLS
	CertFile string
	KeyFile  string
	// LogLevel logrus日志级别（debug/info/warn/error）
	LogLevel string
	// EnableSwagger 是否挂载 /swagger/ 文档端点
	EnableSwagger bool
}

// LoadConfig 加载配置：内置默认值，环境变量（RANGEGO_前缀）覆盖
func LoadConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("rangego")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("root", ".")
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("bandwidth_limit", 0)
	v.SetDefault("cert_file", "")
	v.SetDefault("key_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("enable_swagger", true)

	return &Config{
		Addr:           v.GetString("addr"),
		Root:           v.GetString("root"),
		ChunkSize:      v.GetInt("chunk_size"),
		BandwidthLimit: v.GetInt("bandwidth_limit"),
		CertFile:       v.GetString("cert_file"),
		KeyFile:        v.GetString("key_file"),
		LogLevel:       v.GetString("log_level"),
		EnableSwagger:  v.GetBool("enable_swagger"),
	}
}
