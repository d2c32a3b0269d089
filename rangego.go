package RangeGo

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var defaultLogger = logrus.WithField("module", "RangeGo")

// ErrInvalidAddr 监听地址不合法
var ErrInvalidAddr = errors.New("invalid listen address")

// App 范围请求静态文件服务器
// 显式持有监听生命周期与配置，不依赖任何进程级隐藏状态
type App struct {
	cfg         *Config
	core        *core
	router      *Router
	middlewares []Middleware
	stop        chan struct{}
	stopOnce    sync.Once
}

// New 按配置组装服务器：CORS与访问日志中间件、保留端点路由、
// 静态文件兜底处理器
func New(cfg *Config) *App {
	if cfg == nil {
		cfg = LoadConfig()
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	router := NewRouter()
	router.GET("/health", HealthHandler)
	router.GET("/stats", StatsHandler(cfg.Root))
	if cfg.EnableSwagger {
		router.Mount("/swagger", SwaggerHandler())
	}
	router.SetFallback(NewStaticHandler(cfg.Root, cfg.BandwidthLimit).Handle)

	app := &App{
		cfg:    cfg,
		core:   newCore(cfg.ChunkSize),
		router: router,
		// 日志在最外层（预检也要记录），CORS其次（任何响应前注入头）
		middlewares: []Middleware{
			NewMiddlewareLog(logrus.StandardLogger()),
			NewCors(),
		},
		stop: make(chan struct{}),
	}

	app.core.addHandler(midToHandler(app.middlewares)...)
	app.core.addHandler(app.router.Handle)
	return app
}

// Router 返回路由器实例，允许在Run之前追加保留端点
func (a *App) Router() *Router {
	return a.router
}

// Use 追加中间件
// 必须在Run之前调用；中间件追加在链尾、路由之前
func (a *App) Use(middlewares ...Middleware) {
	a.middlewares = append(a.middlewares, middlewares...)
	a.core.insertHandler(midToHandler(middlewares)...)
}

// Handler 返回完整处理链的 http.Handler（测试与嵌入场景）
func (a *App) Handler() http.Handler {
	return a.core
}

// Run 绑定监听并阻塞服务，收到SIGINT/SIGTERM或Stop调用后优雅退出
func (a *App) Run() error {
	host, port, ok := parseAddress(a.cfg.Addr, a.tlsEnabled())
	if !ok {
		defaultLogger.Errorf("invalid listen address: %s", a.cfg.Addr)
		return ErrInvalidAddr
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	a.banner(host, port)

	errCh := make(chan error, 1)
	go func() {
		var err error
		if a.tlsEnabled() {
			err = a.core.listenHTTPS(addr, a.cfg.CertFile, a.cfg.KeyFile)
		} else {
			err = a.core.listenHTTP(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		defaultLogger.Errorf("server failed to start: %v", err)
		return err
	case sig := <-sigCh:
		defaultLogger.Infof("received %s, server shutting down...", sig)
	case <-a.stop:
		defaultLogger.Info("stop requested, server shutting down...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.core.shutdown(ctx)
	defaultLogger.Info("server shutdown complete")
	return err
}

// Stop 主动停止服务器，解除Run的阻塞
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		close(a.stop)
	})
}

func (a *App) tlsEnabled() bool {
	return a.cfg.CertFile != "" && a.cfg.KeyFile != ""
}

// banner 打印启动信息，绑定全地址时列出各网卡IP
func (a *App) banner(host string, port int) {
	scheme := "http"
	if a.tlsEnabled() {
		scheme = "https"
	}
	defaultLogger.Infof("serving %s at %s://%s:%d", a.cfg.Root, scheme, host, port)
	if host == "0.0.0.0" {
		for _, ip := range getAllIPs() {
			defaultLogger.Infof("running %s://%s:%d", scheme, ip, port)
		}
	}
}

type core struct {
	server       *http.Server
	handlerChain []HandlerFunc
	contextPool  sync.Pool // 上下文池，复用ctx避免GC
	chunkSize    int
}

func newCore(chunkSize int) *core {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	c := &core{
		server: &http.Server{
			ReadTimeout: 10 * time.Second,
			// 大文件与限速流可以写很久，不设写超时
			WriteTimeout:   0,
			IdleTimeout:    30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1MB
		},
		chunkSize: chunkSize,
	}
	c.contextPool = sync.Pool{
		New: func() interface{} {
			return &Context{chunkSize: chunkSize}
		},
	}
	return c
}

func (s *core) listenHTTP(addr string) error {
	s.server.Addr = addr
	s.server.Handler = s
	return s.server.ListenAndServe()
}

func (s *core) listenHTTPS(addr, certFile, keyFile string) error {
	s.server.Addr = addr
	s.server.Handler = s
	return s.server.ListenAndServeTLS(certFile, keyFile)
}

// ServeHTTP 单routine处理HTTP请求
func (s *core) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	// 从对象池获取ctx，失败则新建（兜底）
	ctx, ok := s.contextPool.Get().(*Context)
	if !ok || ctx == nil {
		ctx = NewContext(nil, nil)
	}
	ctx.chunkSize = s.chunkSize
	ctx.Reset(writer, request)

	ctx.SetHandles(s.handlerChain)
	ctx.Next()

	s.contextPool.Put(ctx)
}

func (s *core) addHandler(handler ...HandlerFunc) {
	s.handlerChain = append(s.handlerChain, handler...)
}

// insertHandler 把处理器插到路由处理器之前
func (s *core) insertHandler(handler ...HandlerFunc) {
	if len(s.handlerChain) == 0 {
		s.handlerChain = append(s.handlerChain, handler...)
		return
	}
	last := s.handlerChain[len(s.handlerChain)-1]
	chain := append(s.handlerChain[:len(s.handlerChain)-1:len(s.handlerChain)-1], handler...)
	s.handlerChain = append(chain, last)
}

func (s *core) shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// parseAddress 校验监听地址，port为0表示由系统分配临时端口
func parseAddress(addr string, https bool) (host string, port int, ok bool) {
	if addr == "" {
		if https {
			return "0.0.0.0", 443, true
		}
		return "0.0.0.0", 8080, true
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		defaultLogger.Errorf("invalid address: %v", err)
		return "", 0, false
	}

	port, err = strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		defaultLogger.Errorf("invalid port: %s", portStr)
		return "", 0, false
	}

	if host == "" {
		host = "0.0.0.0"
	}
	return host, port, true
}

// getAllIPs 枚举各激活网卡的IPv4地址，用于启动横幅
func getAllIPs() []string {
	ipList := []string{"localhost"}
	interfaces, err := net.Interfaces()
	if err != nil {
		return ipList
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.To4() == nil {
				continue
			}
			ipList = append(ipList, ipNet.IP.String())
		}
	}
	return ipList
}
